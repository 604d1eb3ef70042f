//go:build linux

// Package setitimer implements the alarm contract on the kernel's interval
// timer: Arm programs setitimer(ITIMER_REAL) and delivery arrives as
// SIGALRM.
package setitimer

import (
	"os"
	"os/signal"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"

	"github.com/jaym/go-timerset/boxtime"
	"github.com/jaym/go-timerset/timers/services/alarm"
)

// Alarm owns the process's ITIMER_REAL slot. There can only be one of
// these per process.
type Alarm struct {
	mu   sync.Mutex
	sigc chan os.Signal
	done chan struct{}
}

func New() *Alarm {
	return &Alarm{}
}

// InstallHandler subscribes to SIGALRM and pumps each delivery into h from
// a dedicated receive goroutine. The runtime has already lifted the signal
// out of true handler context by the time h runs, but h is still held to
// the single-store discipline. A nil h unsubscribes and stops the pump.
func (a *Alarm) InstallHandler(h alarm.Handler) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sigc != nil {
		signal.Stop(a.sigc)
		close(a.done)
		a.sigc = nil
		a.done = nil
	}
	if h == nil {
		return nil
	}
	sigc := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigc, unix.SIGALRM)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-sigc:
				h()
			}
		}
	}()
	a.sigc = sigc
	a.done = done
	return nil
}

func (a *Alarm) Arm(delay boxtime.Interval) error {
	if delay <= 0 {
		return errors.AssertionFailedf("alarm armed with non-positive delay %s", delay)
	}
	it := unix.Itimerval{
		Value: unix.NsecToTimeval(delay.Duration().Nanoseconds()),
	}
	if _, err := unix.Setitimer(unix.ItimerReal, it); err != nil {
		return errors.Wrap(err, "setitimer")
	}
	return nil
}

func (a *Alarm) Disarm() error {
	// the all-zero itimerval cancels any pending expiration
	if _, err := unix.Setitimer(unix.ItimerReal, unix.Itimerval{}); err != nil {
		return errors.Wrap(err, "setitimer")
	}
	return nil
}
