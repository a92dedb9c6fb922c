package registry

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeper_StartStop(t *testing.T) {
	reg := New()
	sw := NewSweeper(reg, time.Minute, zerolog.Nop())

	require.NoError(t, sw.Start())
	assert.True(t, sw.IsRunning())

	// Starting twice should fail.
	assert.Error(t, sw.Start())

	require.NoError(t, sw.Stop())
	assert.False(t, sw.IsRunning())

	// Stopping twice should fail.
	assert.Error(t, sw.Stop())
}

func TestSweeper_SweepNow(t *testing.T) {
	reg := New(WithRetention(time.Nanosecond))
	id := reg.Create("idea", testSlots)

	sw := NewSweeper(reg, time.Minute, zerolog.Nop())

	time.Sleep(time.Millisecond)
	sw.SweepNow()

	_, ok := reg.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len())
}

func TestSweeper_DefaultInterval(t *testing.T) {
	sw := NewSweeper(New(), 0, zerolog.Nop())
	assert.Equal(t, DefaultSweepInterval, sw.interval)
}
