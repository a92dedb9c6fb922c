package registry

import (
	"sync"
	"time"
)

// Status represents the lifecycle state of a generation session
type Status string

const (
	StatusInitializing Status = "initializing"
	StatusRunning      Status = "running"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

// IsTerminal reports whether the status admits no further state changes
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// LogLevel classifies a session log entry
type LogLevel string

const (
	LogLevelInfo    LogLevel = "info"
	LogLevelWarn    LogLevel = "warn"
	LogLevelError   LogLevel = "error"
	LogLevelSuccess LogLevel = "success"
)

// LogEntry is one timestamped event in a session's log
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Level     LogLevel  `json:"level"`
}

// Snapshot is an independent point-in-time copy of a session's state.
// Mutating a Snapshot never affects registry-owned state.
type Snapshot struct {
	SessionID    string            `json:"session_id"`
	Idea         string            `json:"idea"`
	Status       Status            `json:"status"`
	Files        map[string]string `json:"files"`
	Progress     int               `json:"progress_percent"`
	CurrentPhase string            `json:"current_phase"`
	Logs         []LogEntry        `json:"log_entries"`
	CreatedAt    time.Time         `json:"created_at"`
}

// record holds the mutable state for one session. All fields except the
// immutable id, idea and createdAt are guarded by mu.
type record struct {
	mu sync.RWMutex

	id        string
	idea      string
	createdAt time.Time

	status   Status
	progress int
	phase    string
	files    map[string]string
	logs     []LogEntry
}

// snapshot produces a deep copy of the record. Callers must hold at
// least a read lock on r.mu.
func (r *record) snapshot() Snapshot {
	files := make(map[string]string, len(r.files))
	for name, content := range r.files {
		files[name] = content
	}

	logs := make([]LogEntry, len(r.logs))
	copy(logs, r.logs)

	return Snapshot{
		SessionID:    r.id,
		Idea:         r.idea,
		Status:       r.status,
		Files:        files,
		Progress:     r.progress,
		CurrentPhase: r.phase,
		Logs:         logs,
		CreatedAt:    r.createdAt,
	}
}

func (r *record) appendLog(message string, level LogLevel) {
	r.logs = append(r.logs, LogEntry{
		Timestamp: time.Now(),
		Message:   message,
		Level:     level,
	})
}
