package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSlots = []string{"product_brief.md", "prd.md", "architecture.md"}

func TestRegistry_CreateAndGet(t *testing.T) {
	reg := New()

	id := reg.Create("AI meal planner", testSlots)
	require.NotEmpty(t, id)

	snap, ok := reg.Get(id)
	require.True(t, ok)

	assert.Equal(t, id, snap.SessionID)
	assert.Equal(t, "AI meal planner", snap.Idea)
	assert.Equal(t, StatusInitializing, snap.Status)
	assert.Equal(t, 0, snap.Progress)
	assert.Len(t, snap.Files, len(testSlots))
	for _, slot := range testSlots {
		content, exists := snap.Files[slot]
		assert.True(t, exists, "slot %s should be pre-populated", slot)
		assert.Empty(t, content)
	}
}

func TestRegistry_GetUnknownID(t *testing.T) {
	reg := New()

	_, ok := reg.Get("nonexistent-id")
	assert.False(t, ok)
}

func TestRegistry_UniqueIDs(t *testing.T) {
	reg := New()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := reg.Create("idea", testSlots)
		assert.False(t, seen[id], "session ids must be unique")
		seen[id] = true
	}
}

func TestRegistry_UpdateFile(t *testing.T) {
	reg := New()
	id := reg.Create("idea", testSlots)

	err := reg.UpdateFile(id, "product_brief.md", "# Brief")
	require.NoError(t, err)

	err = reg.UpdateProgress(id, 25, "Analysis")
	require.NoError(t, err)

	snap, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, "# Brief", snap.Files["product_brief.md"])
	assert.Equal(t, 25, snap.Progress)
	assert.Equal(t, "Analysis", snap.CurrentPhase)

	// Untouched fields remain untouched.
	assert.Empty(t, snap.Files["prd.md"])
	assert.Equal(t, StatusInitializing, snap.Status)
}

func TestRegistry_UpdateFileUnknownSlot(t *testing.T) {
	reg := New()
	id := reg.Create("idea", testSlots)

	err := reg.UpdateFile(id, "surprise.md", "content")
	assert.ErrorIs(t, err, ErrUnknownSlot)

	snap, _ := reg.Get(id)
	assert.Len(t, snap.Files, len(testSlots), "slot key set must never grow")
}

func TestRegistry_UpdateMissingSession(t *testing.T) {
	reg := New()

	assert.ErrorIs(t, reg.UpdateFile("gone", "prd.md", "x"), ErrSessionNotFound)
	assert.ErrorIs(t, reg.UpdateProgress("gone", 10, "phase"), ErrSessionNotFound)
	assert.ErrorIs(t, reg.AppendLog("gone", "msg", LogLevelInfo), ErrSessionNotFound)
	assert.ErrorIs(t, reg.SetStatus("gone", StatusRunning), ErrSessionNotFound)
}

func TestRegistry_SnapshotIndependence(t *testing.T) {
	reg := New()
	id := reg.Create("idea", testSlots)

	require.NoError(t, reg.UpdateFile(id, "prd.md", "original"))
	require.NoError(t, reg.AppendLog(id, "first", LogLevelInfo))

	snap, ok := reg.Get(id)
	require.True(t, ok)

	// Mutating the snapshot must not leak back into the registry.
	snap.Files["prd.md"] = "tampered"
	snap.Files["injected.md"] = "tampered"
	snap.Logs[0].Message = "tampered"

	fresh, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, "original", fresh.Files["prd.md"])
	assert.NotContains(t, fresh.Files, "injected.md")
	assert.Equal(t, "first", fresh.Logs[0].Message)
}

func TestRegistry_ProgressMonotone(t *testing.T) {
	reg := New()
	id := reg.Create("idea", testSlots)
	require.NoError(t, reg.SetStatus(id, StatusRunning))

	require.NoError(t, reg.UpdateProgress(id, 40, "Planning"))
	require.NoError(t, reg.UpdateProgress(id, 25, "Planning"))

	snap, _ := reg.Get(id)
	assert.Equal(t, 40, snap.Progress, "progress must never regress")

	require.NoError(t, reg.UpdateProgress(id, 150, "Finalize"))
	snap, _ = reg.Get(id)
	assert.Equal(t, 100, snap.Progress, "progress is clamped to 100")
}

func TestRegistry_TerminalImmutability(t *testing.T) {
	reg := New()
	id := reg.Create("idea", testSlots)

	require.NoError(t, reg.SetStatus(id, StatusRunning))
	require.NoError(t, reg.UpdateFile(id, "product_brief.md", "# Brief"))
	require.NoError(t, reg.UpdateProgress(id, 30, "Analysis"))
	require.NoError(t, reg.SetStatus(id, StatusFailed))

	// Accepted but without visible effect.
	require.NoError(t, reg.UpdateFile(id, "prd.md", "late write"))
	require.NoError(t, reg.UpdateProgress(id, 90, "Planning"))
	require.NoError(t, reg.SetStatus(id, StatusCompleted))

	snap, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "# Brief", snap.Files["product_brief.md"])
	assert.Empty(t, snap.Files["prd.md"])
	assert.Equal(t, 30, snap.Progress)
	assert.Equal(t, "Analysis", snap.CurrentPhase)
}

func TestRegistry_LogsAfterTerminal(t *testing.T) {
	reg := New()
	id := reg.Create("idea", testSlots)

	require.NoError(t, reg.SetStatus(id, StatusCompleted))
	require.NoError(t, reg.AppendLog(id, "generation complete", LogLevelSuccess))

	snap, _ := reg.Get(id)
	require.Len(t, snap.Logs, 1)
	assert.Equal(t, "generation complete", snap.Logs[0].Message)
	assert.Equal(t, LogLevelSuccess, snap.Logs[0].Level)
}

func TestRegistry_CompleteSetsProgress(t *testing.T) {
	reg := New()
	id := reg.Create("idea", testSlots)

	require.NoError(t, reg.SetStatus(id, StatusRunning))
	require.NoError(t, reg.UpdateProgress(id, 95, "Finalize"))
	require.NoError(t, reg.SetStatus(id, StatusCompleted))

	snap, _ := reg.Get(id)
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Equal(t, 100, snap.Progress)
}

func TestRegistry_EvictExpired(t *testing.T) {
	reg := New(WithRetention(time.Hour))
	id := reg.Create("idea", testSlots)

	// Not yet expired.
	evicted := reg.EvictExpired(time.Now().Add(30 * time.Minute))
	assert.Equal(t, 0, evicted)
	_, ok := reg.Get(id)
	assert.True(t, ok)

	// Past the retention window, regardless of status.
	require.NoError(t, reg.SetStatus(id, StatusRunning))
	evicted = reg.EvictExpired(time.Now().Add(61 * time.Minute))
	assert.Equal(t, 1, evicted)

	_, ok = reg.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len())

	// Straggling driver writes fail softly.
	assert.ErrorIs(t, reg.UpdateFile(id, "prd.md", "late"), ErrSessionNotFound)
}

func TestRegistry_ConcurrentWritersDistinctSlots(t *testing.T) {
	reg := New()
	id := reg.Create("idea", testSlots)

	done := make(chan bool, 2)
	go func() {
		for i := 0; i < 100; i++ {
			assert.NoError(t, reg.UpdateFile(id, "product_brief.md", "# Brief"))
		}
		done <- true
	}()
	go func() {
		for i := 0; i < 100; i++ {
			assert.NoError(t, reg.UpdateFile(id, "prd.md", "# PRD"))
		}
		done <- true
	}()

	<-done
	<-done

	snap, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, "# Brief", snap.Files["product_brief.md"])
	assert.Equal(t, "# PRD", snap.Files["prd.md"], "no lost update")
}

func TestRegistry_ConcurrentReadersAndWriter(t *testing.T) {
	reg := New()
	id := reg.Create("idea", testSlots)
	require.NoError(t, reg.SetStatus(id, StatusRunning))

	const readers = 8
	done := make(chan bool, readers+1)

	go func() {
		for i := 1; i <= 100; i++ {
			assert.NoError(t, reg.UpdateProgress(id, i, "Running"))
			assert.NoError(t, reg.UpdateFile(id, "prd.md", "# PRD"))
		}
		done <- true
	}()

	for r := 0; r < readers; r++ {
		go func() {
			last := 0
			for i := 0; i < 200; i++ {
				snap, ok := reg.Get(id)
				if !ok {
					continue
				}
				// Monotone progress across snapshots from one reader.
				assert.GreaterOrEqual(t, snap.Progress, last)
				last = snap.Progress
			}
			done <- true
		}()
	}

	for i := 0; i < readers+1; i++ {
		<-done
	}
}

func TestRegistry_ConcurrentSessionsDisjoint(t *testing.T) {
	reg := New()

	const sessions = 10
	ids := make([]string, sessions)
	for i := range ids {
		ids[i] = reg.Create("idea", testSlots)
	}

	done := make(chan bool, sessions)
	for i, id := range ids {
		go func(i int, id string) {
			for j := 0; j < 50; j++ {
				assert.NoError(t, reg.UpdateFile(id, "prd.md", "# PRD"))
				assert.NoError(t, reg.UpdateProgress(id, j*2, "Running"))
			}
			done <- true
		}(i, id)
	}
	for i := 0; i < sessions; i++ {
		<-done
	}

	for _, id := range ids {
		snap, ok := reg.Get(id)
		require.True(t, ok)
		assert.Equal(t, id, snap.SessionID, "no cross-session aliasing")
		assert.Equal(t, "# PRD", snap.Files["prd.md"])
	}
}
