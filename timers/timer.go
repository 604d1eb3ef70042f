package timers

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/segmentio/ksuid"

	"github.com/jaym/go-timerset/boxtime"
)

// Timer fires once when its deadline is reached, provided the host keeps
// polling the timer set. A Timer with a zero deadline is inert and never
// fires. Timers are not safe for use outside the host's polling thread.
type Timer struct {
	id        ksuid.KSUID
	expiresAt boxtime.Time
	expired   bool
	onExpire  func(*Timer)
}

// NewTimer registers a timer due after timeout. A timeout of zero produces
// an inert timer that never joins the set.
func NewTimer(timeout time.Duration) *Timer {
	return NewTimerFunc(timeout, nil)
}

// NewTimerFunc is NewTimer with an expiry hook. The hook runs in place of
// the default behaviour and must call MarkExpired itself, unless it
// deliberately leaves the flag unset. The hook may register or stop other
// timers, but not the one it was invoked on.
func NewTimerFunc(timeout time.Duration, onExpire func(*Timer)) *Timer {
	s := mustScheduler()
	if timeout < 0 {
		panic(errors.AssertionFailedf("timer timeout must not be negative, got %s", timeout))
	}
	t := &Timer{
		id:       ksuid.New(),
		onExpire: onExpire,
	}
	if timeout == 0 {
		s.log.V(4).Info("timer initialised, will not fire", "timer", t.id)
		return t
	}
	t.expiresAt = s.clock.Now().Add(boxtime.FromDuration(timeout))
	s.log.V(4).Info("timer initialised", "timer", t.id, "timeout", timeout, "expiresAt", t.expiresAt)
	s.add(t)
	return t
}

// Clone returns an independent timer with the same deadline and expiry
// state. If the original is armed, the clone joins the set as a distinct
// member and fires on its own.
func (t *Timer) Clone() *Timer {
	n := &Timer{
		id:        ksuid.New(),
		expiresAt: t.expiresAt,
		expired:   t.expired,
		onExpire:  t.onExpire,
	}
	s := global
	if s == nil {
		return n
	}
	if !n.expired && !n.expiresAt.IsZero() {
		s.log.V(4).Info("timer cloned", "timer", n.id, "from", t.id, "expiresAt", n.expiresAt)
		s.add(n)
	} else {
		s.log.V(4).Info("timer cloned, will not fire", "timer", n.id, "from", t.id)
	}
	return n
}

// Assign makes t adopt src's deadline, expiry state and hook. Any event t
// was armed for is cancelled first; src keeps its own registration.
func (t *Timer) Assign(src *Timer) {
	s := global
	if s == nil {
		t.expiresAt = src.expiresAt
		t.expired = src.expired
		t.onExpire = src.onExpire
		return
	}
	s.remove(t)
	t.expiresAt = src.expiresAt
	t.expired = src.expired
	t.onExpire = src.onExpire
	if !t.expired && !t.expiresAt.IsZero() {
		s.log.V(4).Info("timer assigned", "timer", t.id, "from", src.id, "expiresAt", t.expiresAt)
		s.add(t)
	} else {
		s.log.V(4).Info("timer assigned, will not fire", "timer", t.id, "from", src.id)
	}
}

// Stop removes the timer from the set; it will not fire afterwards.
// Stopping a timer that is not a member, or stopping after Cleanup, is a
// no-op.
func (t *Timer) Stop() {
	s := global
	if s == nil {
		return
	}
	s.log.V(4).Info("timer stopped, will not fire", "timer", t.id)
	s.remove(t)
}

// MarkExpired records that the timer has been dispatched. It is the default
// expiry behaviour; custom hooks call it on the timer they receive.
func (t *Timer) MarkExpired() {
	t.expired = true
}

func (t *Timer) HasExpired() bool {
	return t.expired
}

func (t *Timer) ExpiresAt() boxtime.Time {
	return t.expiresAt
}

func (t *Timer) String() string {
	return fmt.Sprintf("timer %s expiring at %s", t.id, t.expiresAt)
}

func (t *Timer) fire() {
	if t.onExpire != nil {
		t.onExpire(t)
		return
	}
	t.MarkExpired()
}
