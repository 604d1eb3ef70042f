package timers

import (
	"github.com/benbjohnson/clock"

	"github.com/jaym/go-timerset/boxtime"
	"github.com/jaym/go-timerset/plugins/alarm/worker"
	"github.com/jaym/go-timerset/timers/services/alarm"
)

type schedulerOptions struct {
	clock boxtime.Clock
	alarm alarm.Alarm
}

func (so *schedulerOptions) Clock() boxtime.Clock {
	if so.clock == nil {
		return boxtime.System()
	}
	return so.clock
}

func (so *schedulerOptions) Alarm() alarm.Alarm {
	if so.alarm == nil {
		return worker.New(clock.New())
	}
	return so.alarm
}

type Option func(*schedulerOptions)

func WithClock(c boxtime.Clock) Option {
	return func(so *schedulerOptions) {
		so.clock = c
	}
}

func WithAlarm(a alarm.Alarm) Option {
	return func(so *schedulerOptions) {
		so.alarm = a
	}
}
