//go:build !linux

package main

import (
	"github.com/jaym/go-timerset/timers/services/alarm"
)

// platformAlarm returning nil makes Init fall back to the worker adapter.
func platformAlarm() alarm.Alarm {
	return nil
}
