package timers

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"

	"github.com/jaym/go-timerset/boxtime"
	"github.com/jaym/go-timerset/timers/services/alarm"
)

// scheduler owns the set of armed timers and keeps the alarm programmed
// with the earliest deadline. All mutation happens on the host's polling
// thread; the only cross-context state is the rescheduleNeeded flag, which
// the alarm's delivery context stores to through requestReschedule.
type scheduler struct {
	log   logr.Logger
	clock boxtime.Clock
	alarm alarm.Alarm

	members []*Timer
	fatal   error

	rescheduleNeeded int32
}

func newScheduler(log logr.Logger, clk boxtime.Clock, a alarm.Alarm) *scheduler {
	return &scheduler{
		log:     log,
		clock:   clk,
		alarm:   a,
		members: make([]*Timer, 0, 8),
	}
}

// requestReschedule is the alarm delivery trampoline. A single atomic
// store is the only thing that is safe in that context.
func (s *scheduler) requestReschedule() {
	atomic.StoreInt32(&s.rescheduleNeeded, 1)
}

func (s *scheduler) pollIfNeeded() {
	if atomic.LoadInt32(&s.rescheduleNeeded) != 0 {
		s.reschedule()
	}
}

func (s *scheduler) add(t *Timer) {
	s.checkUsable()
	s.members = append(s.members, t)
	s.reschedule()
}

// remove drops every back-reference to t, so a timer added more than once
// is still fully cleaned by a single call. Removing a non-member is fine.
func (s *scheduler) remove(t *Timer) {
	s.checkUsable()
	kept := s.members[:0]
	for _, m := range s.members {
		if m != t {
			kept = append(kept, m)
		}
	}
	for i := len(kept); i < len(s.members); i++ {
		s.members[i] = nil
	}
	s.members = kept
	s.reschedule()
}

// reschedule dispatches every due timer and reprograms the alarm for the
// earliest remaining deadline. Expiry hooks may add or remove timers; the
// scan restarts after every dispatch so such mutations are picked up in
// the same pass.
func (s *scheduler) reschedule() {
	s.checkUsable()

	// Clear the flag before scanning. A notification arriving while we
	// are in here may or may not need another pass; this way the next
	// poll makes one anyway.
	atomic.StoreInt32(&s.rescheduleNeeded, 0)

	now := s.clock.Now()

restart:
	for {
		for i, t := range s.members {
			if t.expiresAt.IsZero() {
				// never a valid member; drop it and carry on
				s.log.V(16).Info("dropping inert set member", "timer", t.id)
				s.removeAt(i)
				continue restart
			}
			due := t.expiresAt.Sub(now)
			if due <= 0 {
				s.log.V(4).Info("timer expired, dispatching", "now", now, "timer", t.id)
				s.removeAt(i)
				t.fire()
				continue restart
			}
			s.log.V(16).Info("timer not due yet", "now", now, "timer", t.id, "due", due)
		}
		break
	}

	if len(s.members) == 0 {
		if err := s.alarm.Disarm(); err != nil {
			s.fail(errors.Wrap(err, "disarming interval timer"))
		}
		return
	}

	var next boxtime.Interval
	for _, t := range s.members {
		due := t.expiresAt.Sub(now)
		if due <= 0 {
			due = 1
		}
		if next == 0 || due < next {
			next = due
		}
	}
	if err := s.alarm.Arm(next); err != nil {
		s.fail(errors.Wrap(err, "arming interval timer"))
	}
	s.log.V(16).Info("next wakeup armed", "delay", next)
}

func (s *scheduler) removeAt(i int) {
	copy(s.members[i:], s.members[i+1:])
	s.members[len(s.members)-1] = nil
	s.members = s.members[:len(s.members)-1]
}

func (s *scheduler) checkUsable() {
	if s.fatal != nil {
		panic(s.fatal)
	}
}

func (s *scheduler) fail(err error) {
	s.fatal = err
	panic(err)
}
