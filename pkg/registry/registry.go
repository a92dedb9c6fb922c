package registry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultRetention is how long a session is kept after creation,
// regardless of its status.
const DefaultRetention = time.Hour

var (
	// ErrSessionNotFound indicates the session id is unknown or has been
	// evicted. This is an expected outcome, not a fault: a poller may
	// simply be holding a link to an expired session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrUnknownSlot indicates a write to a filename outside the slot
	// set the session was created with.
	ErrUnknownSlot = errors.New("unknown document slot")
)

// Registry is a concurrently-accessed store of generation sessions.
// The top-level map has its own lock; each session carries a per-record
// lock so that concurrent runs for different sessions never contend.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]*record
	retention time.Duration
	logger    zerolog.Logger
	observer  Observer
}

// Observer receives registry lifecycle events, typically for metrics.
type Observer interface {
	SessionCreated()
	SessionsEvicted(n int)
	SessionsActive(n int)
}

// Option configures a Registry
type Option func(*Registry)

// WithRetention overrides the session retention window
func WithRetention(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.retention = d
		}
	}
}

// WithLogger sets the registry logger
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithObserver sets the lifecycle observer
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		r.observer = o
	}
}

// New creates an empty Registry
func New(opts ...Option) *Registry {
	r := &Registry{
		sessions:  make(map[string]*record),
		retention: DefaultRetention,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create allocates a new session for the given idea. The files map is
// pre-populated with the slot filenames mapped to empty strings; the
// key set never changes afterwards. Returns the new session id.
func (r *Registry) Create(idea string, slots []string) string {
	id := uuid.NewString()

	files := make(map[string]string, len(slots))
	for _, name := range slots {
		files[name] = ""
	}

	rec := &record{
		id:        id,
		idea:      idea,
		createdAt: time.Now(),
		status:    StatusInitializing,
		files:     files,
	}

	r.mu.Lock()
	r.sessions[id] = rec
	active := len(r.sessions)
	r.mu.Unlock()

	r.logger.Info().
		Str("session_id", id).
		Int("slots", len(slots)).
		Msg("Session created")

	if r.observer != nil {
		r.observer.SessionCreated()
		r.observer.SessionsActive(active)
	}

	return id
}

// Get returns an independent snapshot of the session, or false if the
// id is unknown or evicted. The copy is taken while holding the
// session's read lock, so it always reflects a consistent state.
func (r *Registry) Get(id string) (Snapshot, bool) {
	rec, ok := r.lookup(id)
	if !ok {
		return Snapshot{}, false
	}

	rec.mu.RLock()
	snap := rec.snapshot()
	rec.mu.RUnlock()

	return snap, true
}

// UpdateFile overwrites one document slot's content. Writes to a
// terminal session are accepted but have no effect.
func (r *Registry) UpdateFile(id, filename, content string) error {
	rec, ok := r.lookup(id)
	if !ok {
		return ErrSessionNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.status.IsTerminal() {
		return nil
	}
	if _, exists := rec.files[filename]; !exists {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, filename)
	}

	rec.files[filename] = content
	return nil
}

// UpdateProgress overwrites the progress percentage and phase label.
// Progress is clamped to [0,100] and never moves backwards while the
// session is running; updates after a terminal status are no-ops.
func (r *Registry) UpdateProgress(id string, percent int, phase string) error {
	rec, ok := r.lookup(id)
	if !ok {
		return ErrSessionNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.status.IsTerminal() {
		return nil
	}

	if percent > 100 {
		percent = 100
	}
	if percent > rec.progress {
		rec.progress = percent
	}
	if phase != "" {
		rec.phase = phase
	}
	return nil
}

// AppendLog appends one entry to the session's log. Logs may still be
// appended after a terminal status, for final status messages.
func (r *Registry) AppendLog(id, message string, level LogLevel) error {
	rec, ok := r.lookup(id)
	if !ok {
		return ErrSessionNotFound
	}

	rec.mu.Lock()
	rec.appendLog(message, level)
	rec.mu.Unlock()
	return nil
}

// SetStatus transitions the session's status. Once a terminal status
// is set, later calls are accepted but change nothing. Completing a
// session pins progress at 100.
func (r *Registry) SetStatus(id string, status Status) error {
	rec, ok := r.lookup(id)
	if !ok {
		return ErrSessionNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.status.IsTerminal() {
		return nil
	}

	rec.status = status
	if status == StatusCompleted {
		rec.progress = 100
	}
	return nil
}

// EvictExpired removes every session created more than the retention
// window before now, regardless of status. Returns the number evicted.
func (r *Registry) EvictExpired(now time.Time) int {
	cutoff := now.Add(-r.retention)

	r.mu.Lock()
	var evicted []string
	for id, rec := range r.sessions {
		// createdAt is immutable, no record lock needed.
		if rec.createdAt.Before(cutoff) {
			evicted = append(evicted, id)
			delete(r.sessions, id)
		}
	}
	active := len(r.sessions)
	r.mu.Unlock()

	if len(evicted) > 0 {
		r.logger.Info().
			Int("evicted", len(evicted)).
			Msg("Evicted expired sessions")
		if r.observer != nil {
			r.observer.SessionsEvicted(len(evicted))
			r.observer.SessionsActive(active)
		}
	}

	return len(evicted)
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Retention returns the configured retention window
func (r *Registry) Retention() time.Duration {
	return r.retention
}

// lookup resolves an id to its record under the registry read lock
func (r *Registry) lookup(id string) (*record, bool) {
	r.mu.RLock()
	rec, ok := r.sessions[id]
	r.mu.RUnlock()
	return rec, ok
}
