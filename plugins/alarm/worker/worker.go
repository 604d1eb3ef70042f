// Package worker implements the alarm contract with a timer goroutine, for
// hosts and platforms without a signal-driven interval primitive.
package worker

import (
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/cockroachdb/errors"

	"github.com/jaym/go-timerset/boxtime"
	"github.com/jaym/go-timerset/timers/services/alarm"
)

type Alarm struct {
	clock clock.Clock

	mu      sync.Mutex
	handler alarm.Handler
	pending *clock.Timer
	gen     uint64
}

func New(c clock.Clock) *Alarm {
	return &Alarm{clock: c}
}

func (a *Alarm) InstallHandler(h alarm.Handler) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = h
	if h == nil {
		a.stopLocked()
	}
	return nil
}

func (a *Alarm) Arm(delay boxtime.Interval) error {
	if delay <= 0 {
		return errors.AssertionFailedf("alarm armed with non-positive delay %s", delay)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.handler == nil {
		return errors.New("no alarm handler installed")
	}
	a.stopLocked()
	gen := a.gen
	a.pending = a.clock.AfterFunc(delay.Duration(), func() {
		a.deliver(gen)
	})
	return nil
}

func (a *Alarm) Disarm() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
	return nil
}

func (a *Alarm) deliver(gen uint64) {
	a.mu.Lock()
	if gen != a.gen {
		// superseded by a later Arm or a Disarm
		a.mu.Unlock()
		return
	}
	h := a.handler
	a.pending = nil
	a.mu.Unlock()
	if h != nil {
		h()
	}
}

func (a *Alarm) stopLocked() {
	a.gen++
	if a.pending != nil {
		a.pending.Stop()
		a.pending = nil
	}
}
