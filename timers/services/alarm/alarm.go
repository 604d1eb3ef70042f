// Package alarm defines the contract of the process-wide interval-timer
// primitive that drives timer wakeups.
package alarm

import (
	"github.com/jaym/go-timerset/boxtime"
)

// Handler is invoked in an asynchronous delivery context (a signal handler,
// or a goroutine standing in for one). Implementations of Handler must do
// nothing beyond a single atomic store: no allocation, no logging, no
// traversal, no call back into the Alarm.
type Handler func()

// Alarm is a one-shot interval timer. At most one notification is
// outstanding at any time; Arm replaces any pending program.
type Alarm interface {
	// InstallHandler registers the delivery handler. A nil handler
	// uninstalls the current one and stops delivery.
	InstallHandler(h Handler) error

	// Arm programs a single notification to fire no earlier than delay
	// from now. delay must be positive; callers clamp to at least one
	// microsecond. Some platform primitives treat a zero delay as a
	// cancellation, which is why it is forbidden here.
	Arm(delay boxtime.Interval) error

	// Disarm cancels any pending notification.
	Disarm() error
}
