// internal/access/inactivity/monitor.go

// Package inactivity implements the countdown that revokes admin
// elevation after a window with no qualifying user interaction.
package inactivity

import (
	"sync"
	"time"
)

type State string

const (
	StateActive State = "active"
	StateLocked State = "locked"
)

// Monitor is a two-state machine around one cancellable timer. Each
// Touch restarts the fixed countdown; it never extends it additively.
// Locked is terminal until Activate is called again. The monitor owns
// its timer: after Stop returns the lock callback cannot fire.
type Monitor struct {
	mu      sync.Mutex
	timeout time.Duration
	onLock  func()

	timer   *time.Timer
	state   State
	stopped bool
}

// New builds a monitor; it stays disarmed until Activate.
func New(timeout time.Duration, onLock func()) *Monitor {
	return &Monitor{
		timeout: timeout,
		onLock:  onLock,
		state:   StateLocked,
	}
}

// Activate (re-)enters ACTIVE and arms a fresh countdown. Used at session
// start when elevation is restored, and by an explicit unlock after a
// timeout. Also the restart point when role or unlock state changes.
func (m *Monitor) Activate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return
	}

	m.state = StateActive
	m.arm()
}

// Touch restarts the countdown on a qualifying interaction. A touch on a
// locked or stopped monitor is ignored.
func (m *Monitor) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || m.state != StateActive {
		return
	}
	m.arm()
}

// State returns the current machine state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Stop cancels the timer for good. The monitor cannot be reused; a new
// session builds a new monitor.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopped = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// arm resets the countdown. Callers hold m.mu.
func (m *Monitor) arm() {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.timeout, m.expire)
}

func (m *Monitor) expire() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || m.state != StateActive {
		return
	}

	m.state = StateLocked
	m.timer = nil

	// fired under the lock so Stop can never return while a lock
	// callback is still in flight; the callback must not call back
	// into the monitor (re-entry happens via an explicit unlock)
	if m.onLock != nil {
		m.onLock()
	}
}
