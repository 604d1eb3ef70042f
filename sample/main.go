package main

import (
	"fmt"
	stdlog "log"
	"os"
	"time"

	"github.com/go-logr/stdr"

	"github.com/jaym/go-timerset/timers"
)

func main() {
	stdr.SetVerbosity(4)
	log := stdr.NewWithOptions(stdlog.New(os.Stderr, "", stdlog.LstdFlags), stdr.Options{LogCaller: stdr.All})

	opts := []timers.Option{}
	if a := platformAlarm(); a != nil {
		opts = append(opts, timers.WithAlarm(a))
	}
	if err := timers.Init(log, opts...); err != nil {
		log.Error(err, "failed to initialise timers")
		os.Exit(1)
	}
	defer timers.Cleanup()

	done := false
	short := timers.NewTimerFunc(500*time.Millisecond, func(t *timers.Timer) {
		t.MarkExpired()
		fmt.Println("short timer fired")
	})
	timers.NewTimerFunc(1200*time.Millisecond, func(t *timers.Timer) {
		t.MarkExpired()
		fmt.Println("long timer fired")
		done = true
	})

	// a clone is a separate registration and fires on its own, alongside
	// the original
	shortCopy := short.Clone()
	cancelled := timers.NewTimer(2 * time.Second)
	cancelled.Stop()

	for !done {
		timers.PollIfNeeded()
		time.Sleep(10 * time.Millisecond)
	}

	fmt.Printf("short=%v copy=%v cancelled=%v\n",
		short.HasExpired(), shortCopy.HasExpired(), cancelled.HasExpired())
}
