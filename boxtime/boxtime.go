// Package boxtime measures monotonic time in microseconds ("box-time").
package boxtime

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
)

// Time is a monotonic instant, counted in microseconds from an arbitrary
// epoch. The zero Time is a sentinel meaning "never".
type Time int64

// Interval is a span between two instants, in microseconds.
type Interval int64

const MicrosecondsPerSecond = 1000000

func FromSeconds(s int64) Interval {
	return Interval(s * MicrosecondsPerSecond)
}

// FromDuration truncates d to microsecond resolution.
func FromDuration(d time.Duration) Interval {
	return Interval(d / time.Microsecond)
}

// Seconds truncates towards zero.
func (i Interval) Seconds() int64 {
	return int64(i) / MicrosecondsPerSecond
}

func (i Interval) Micros() int64 {
	return int64(i)
}

func (i Interval) Duration() time.Duration {
	return time.Duration(i) * time.Microsecond
}

func (i Interval) String() string {
	return fmt.Sprintf("%d.%06ds", int64(i)/MicrosecondsPerSecond, int64(i)%MicrosecondsPerSecond)
}

func (t Time) Add(i Interval) Time {
	return t + Time(i)
}

func (t Time) Sub(o Time) Interval {
	return Interval(t - o)
}

func (t Time) IsZero() bool {
	return t == 0
}

func (t Time) String() string {
	return fmt.Sprintf("%d.%06d", int64(t)/MicrosecondsPerSecond, int64(t)%MicrosecondsPerSecond)
}

// Clock provides the current box-time instant. Wall-clock adjustments must
// not be observable through Now.
type Clock interface {
	Now() Time
}

type boxClock struct {
	c        clock.Clock
	base     time.Time
	baseWall Time
}

// NewClock adapts c to a box-time Clock. The wall reading at construction
// becomes the epoch offset; everything after that is elapsed time relative
// to that single reading, so Now never goes backwards.
func NewClock(c clock.Clock) Clock {
	base := c.Now()
	return &boxClock{
		c:        c,
		base:     base,
		baseWall: Time(base.UnixNano() / int64(time.Microsecond)),
	}
}

func (b *boxClock) Now() Time {
	return b.baseWall.Add(FromDuration(b.c.Now().Sub(b.base)))
}

// System returns a Clock backed by the real monotonic clock.
func System() Clock {
	return NewClock(clock.New())
}
