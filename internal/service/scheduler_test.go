package service

import (
	"sync"
	"time"
)

// manualScheduler fires callbacks only when the test says so
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTimer{delay: d, f: f}
	m.timers = append(m.timers, t)
	return t
}

// fireAll runs every pending callback, including stopped ones when force is
// set, to simulate a callback that was already running when Stop was called
func (m *manualScheduler) fireAll(force bool) {
	m.mu.Lock()
	timers := append([]*manualTimer(nil), m.timers...)
	m.mu.Unlock()

	for _, t := range timers {
		if t.fired || (t.stopped && !force) {
			continue
		}
		t.fired = true
		t.f()
	}
}

func (m *manualScheduler) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

func (m *manualScheduler) lastDelay() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.timers) == 0 {
		return 0
	}
	return m.timers[len(m.timers)-1].delay
}
