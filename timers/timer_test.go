package timers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaym/go-timerset/boxtime"
)

func TestZeroTimeoutIsInert(t *testing.T) {
	mock, fake := setupTimers(t)

	tm := NewTimer(0)
	assert.True(t, tm.ExpiresAt().IsZero())
	assert.Empty(t, global.members)
	assert.Empty(t, fake.armed)

	mock.Add(time.Hour)
	PollIfNeeded()
	assert.False(t, tm.HasExpired())
}

func TestNegativeTimeoutPanics(t *testing.T) {
	_, _ = setupTimers(t)

	require.Panics(t, func() {
		NewTimer(-time.Second)
	})
}

func TestCloneFiresIndependently(t *testing.T) {
	mock, fake := setupTimers(t)

	ta := NewTimer(2 * time.Second)
	tb := ta.Clone()
	assert.Equal(t, ta.ExpiresAt(), tb.ExpiresAt())
	assert.NotEqual(t, ta.id, tb.id)

	mock.Add(2100 * time.Millisecond)
	fake.deliver()
	PollIfNeeded()

	assert.True(t, ta.HasExpired())
	assert.True(t, tb.HasExpired())
}

func TestCloneOfInertAndExpiredStaysOut(t *testing.T) {
	mock, fake := setupTimers(t)

	inert := NewTimer(0)
	assert.Empty(t, global.members)
	assert.True(t, inert.Clone().ExpiresAt().IsZero())
	assert.Empty(t, global.members)

	tm := NewTimer(time.Second)
	mock.Add(1100 * time.Millisecond)
	fake.deliver()
	PollIfNeeded()
	require.True(t, tm.HasExpired())

	c := tm.Clone()
	assert.True(t, c.HasExpired())
	assert.Empty(t, global.members)
}

func TestAssignmentCancelsDestination(t *testing.T) {
	mock, fake := setupTimers(t)

	ta := NewTimer(5 * time.Second)
	tb := NewTimer(2 * time.Second)
	ta.Assign(tb)

	// ta now fires at tb's deadline; the five second event is gone
	assert.Equal(t, tb.ExpiresAt(), ta.ExpiresAt())
	assert.Len(t, global.members, 2)
	assert.Equal(t, boxtime.FromSeconds(2), fake.lastArmed())

	mock.Add(2100 * time.Millisecond)
	fake.deliver()
	PollIfNeeded()

	assert.True(t, ta.HasExpired())
	assert.True(t, tb.HasExpired())
	assert.Empty(t, global.members)
}

func TestAssignmentFromInertDisarms(t *testing.T) {
	mock, _ := setupTimers(t)

	ta := NewTimer(2 * time.Second)
	ta.Assign(NewTimer(0))

	assert.Empty(t, global.members)
	mock.Add(3 * time.Second)
	PollIfNeeded()
	assert.False(t, ta.HasExpired())
}

func TestAssignmentLeavesSourceRegistered(t *testing.T) {
	_, _ = setupTimers(t)

	ta := NewTimer(5 * time.Second)
	tb := NewTimer(2 * time.Second)
	ta.Assign(tb)

	// only the destination's old registration is removed
	assert.Contains(t, global.members, tb)
	assert.Contains(t, global.members, ta)
}

func TestLifecyclePanics(t *testing.T) {
	_, _ = setupTimers(t)

	require.Panics(t, func() {
		Init(testLogger())
	})

	require.NoError(t, Cleanup())
	require.Panics(t, func() {
		Cleanup()
	})
	require.Panics(t, func() {
		NewTimer(time.Second)
	})
	require.Panics(t, func() {
		PollIfNeeded()
	})
}

func TestTimersOutliveCleanup(t *testing.T) {
	mock, fake := setupTimers(t)

	tm := NewTimer(time.Second)
	require.NoError(t, Cleanup())
	assert.Equal(t, 1, fake.disarms)
	assert.Nil(t, fake.handler)

	// the survivor behaves as "never fires" from here on
	mock.Add(time.Hour)
	tm.Stop()
	c := tm.Clone()
	tm.Assign(c)
	assert.False(t, tm.HasExpired())
	assert.False(t, c.HasExpired())
}
