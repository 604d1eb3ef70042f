//go:build linux

package main

import (
	"github.com/jaym/go-timerset/plugins/alarm/setitimer"
	"github.com/jaym/go-timerset/timers/services/alarm"
)

func platformAlarm() alarm.Alarm {
	return setitimer.New()
}
