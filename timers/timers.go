// Package timers provides time-bound callbacks driven by a single
// process-wide interval timer. The host registers timers, keeps running its
// own loop, and calls PollIfNeeded at convenient points; expired timers are
// dispatched there, never from a second thread.
package timers

import (
	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"
)

var global *scheduler

// Init creates the process-wide timer set and installs the alarm delivery
// handler. It must be called exactly once before any Timer is constructed;
// a second call panics.
func Init(log logr.Logger, opts ...Option) error {
	if global != nil {
		panic(errors.AssertionFailedf("timers: Init called twice"))
	}
	options := schedulerOptions{}
	for _, o := range opts {
		o(&options)
	}
	s := newScheduler(log.WithName("timers"), options.Clock(), options.Alarm())
	if err := s.alarm.InstallHandler(s.requestReschedule); err != nil {
		return errors.Wrap(err, "installing alarm handler")
	}
	global = s
	s.log.V(1).Info("timer set initialised")
	return nil
}

// Cleanup disarms the alarm, uninstalls the handler and discards the set.
// Timers that outlive Cleanup never fire; stopping them stays safe.
func Cleanup() error {
	if global == nil {
		panic(errors.AssertionFailedf("timers: Cleanup without Init"))
	}
	s := global
	global = nil

	var result error
	if err := s.alarm.Disarm(); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "disarming interval timer"))
	}
	if err := s.alarm.InstallHandler(nil); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "uninstalling alarm handler"))
	}
	for i := range s.members {
		s.members[i] = nil
	}
	s.members = nil
	s.log.V(1).Info("timer set cleaned up")
	return result
}

// PollIfNeeded reschedules if a notification arrived since the last poll.
// Hosts call this from their event loop.
func PollIfNeeded() {
	mustScheduler().pollIfNeeded()
}

// Reschedule forces an immediate expiry and selection pass.
func Reschedule() {
	mustScheduler().reschedule()
}

// RequestReschedule marks the set as needing a pass at the next poll. It
// performs a single atomic store and nothing else, so it is safe from the
// alarm's delivery context.
func RequestReschedule() {
	mustScheduler().requestReschedule()
}

// Add records t as a set member and reschedules. Timer construction does
// this itself; calling Add again registers an additional back-reference,
// all of which one Remove cleans up.
func Add(t *Timer) {
	mustScheduler().add(t)
}

// Remove drops every back-reference to t and reschedules. Removing a timer
// that is not a member is not an error.
func Remove(t *Timer) {
	mustScheduler().remove(t)
}

func mustScheduler() *scheduler {
	if global == nil {
		panic(errors.AssertionFailedf("timers: not initialised"))
	}
	return global
}
