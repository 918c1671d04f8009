package inactivity

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorLocksExactlyOnceAfterTimeout(t *testing.T) {
	var fires int64
	m := New(30*time.Millisecond, func() { atomic.AddInt64(&fires, 1) })
	defer m.Stop()

	m.Activate()
	require.Equal(t, StateActive, m.State())

	time.Sleep(120 * time.Millisecond)

	assert.Equal(t, StateLocked, m.State())
	assert.Equal(t, int64(1), atomic.LoadInt64(&fires))
}

func TestMonitorTouchRestartsTheCountdown(t *testing.T) {
	var fires int64
	m := New(60*time.Millisecond, func() { atomic.AddInt64(&fires, 1) })
	defer m.Stop()

	m.Activate()

	// keep touching well inside the window; the countdown restarts each
	// time, so the total elapsed time exceeding one window is irrelevant
	for i := 0; i < 6; i++ {
		time.Sleep(20 * time.Millisecond)
		m.Touch()
	}

	assert.Equal(t, StateActive, m.State())
	assert.Equal(t, int64(0), atomic.LoadInt64(&fires))
}

func TestMonitorLockedIsTerminalUntilActivate(t *testing.T) {
	var fires int64
	m := New(20*time.Millisecond, func() { atomic.AddInt64(&fires, 1) })
	defer m.Stop()

	m.Activate()
	time.Sleep(80 * time.Millisecond)
	require.Equal(t, StateLocked, m.State())

	// touches while locked do nothing
	m.Touch()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, StateLocked, m.State())
	assert.Equal(t, int64(1), atomic.LoadInt64(&fires))

	// explicit unlock re-enters ACTIVE and re-arms
	m.Activate()
	assert.Equal(t, StateActive, m.State())
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, StateLocked, m.State())
	assert.Equal(t, int64(2), atomic.LoadInt64(&fires))
}

func TestMonitorStopPreventsFiring(t *testing.T) {
	var fires int64
	m := New(30*time.Millisecond, func() { atomic.AddInt64(&fires, 1) })

	m.Activate()
	m.Stop()

	time.Sleep(90 * time.Millisecond)
	assert.Equal(t, int64(0), atomic.LoadInt64(&fires))

	// a stopped monitor cannot be re-armed
	m.Activate()
	m.Touch()
	time.Sleep(90 * time.Millisecond)
	assert.Equal(t, int64(0), atomic.LoadInt64(&fires))
}

func TestMonitorStartsDisarmed(t *testing.T) {
	var fires int64
	m := New(20*time.Millisecond, func() { atomic.AddInt64(&fires, 1) })
	defer m.Stop()

	// never activated: nothing to revoke, nothing fires
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int64(0), atomic.LoadInt64(&fires))
	assert.Equal(t, StateLocked, m.State())
}
