package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewcheck/pkg/contracts/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var key = domain.EvaluationKey{Interviewer: "alice", CandidateID: "260123_Kim"}

func TestTimers_StartPauseResume(t *testing.T) {
	clock := newFakeClock()
	ts := NewTimers(clock.Now)
	total := 8 * time.Minute

	snap := ts.Snapshot(key, total)
	assert.False(t, snap.Running)
	assert.Equal(t, 480, snap.RemainingSeconds)
	assert.Equal(t, "8:00", snap.Remaining)

	ts.Start(key, total)
	clock.Advance(90 * time.Second)
	snap = ts.Snapshot(key, total)
	assert.True(t, snap.Running)
	assert.Equal(t, 90, snap.ElapsedSeconds)
	assert.Equal(t, "6:30", snap.Remaining)

	snap = ts.Pause(key, total)
	assert.False(t, snap.Running)
	clock.Advance(time.Hour)
	assert.Equal(t, 90, ts.Snapshot(key, total).ElapsedSeconds, "paused time does not count")

	// starting twice does not restart the segment
	ts.Start(key, total)
	clock.Advance(30 * time.Second)
	ts.Start(key, total)
	clock.Advance(30 * time.Second)
	snap = ts.Snapshot(key, total)
	assert.Equal(t, 150, snap.ElapsedSeconds)
	assert.InDelta(t, 150.0/480.0, snap.Progress, 1e-9)
}

func TestTimers_Expiry(t *testing.T) {
	clock := newFakeClock()
	ts := NewTimers(clock.Now)

	ts.Start(key, time.Minute)
	clock.Advance(61 * time.Second)

	snap := ts.Snapshot(key, time.Minute)
	assert.True(t, snap.Expired)
	assert.Equal(t, 0, snap.RemainingSeconds)
	assert.Equal(t, "0:00", snap.Remaining)
	assert.Equal(t, 1.0, snap.Progress)
}

func TestTimers_Reset(t *testing.T) {
	clock := newFakeClock()
	ts := NewTimers(clock.Now)

	var running []int
	ts.OnRunningChanged = func(n int) { running = append(running, n) }

	ts.Start(key, time.Minute)
	clock.Advance(20 * time.Second)
	snap := ts.Reset(key, 2*time.Minute)
	assert.False(t, snap.Running)
	assert.Equal(t, 0, snap.ElapsedSeconds)
	assert.Equal(t, 120, snap.TotalSeconds, "reset applies the new length")
	assert.Equal(t, []int{1, 0}, running)
	assert.Equal(t, 0, ts.Running())
}

func TestTimers_LengthFixedOnceStarted(t *testing.T) {
	clock := newFakeClock()
	ts := NewTimers(clock.Now)

	ts.Start(key, 8*time.Minute)
	clock.Advance(time.Minute)
	ts.Pause(key, 8*time.Minute)

	snap := ts.Start(key, 10*time.Minute)
	assert.Equal(t, 480, snap.TotalSeconds)
}

func TestTimers_IndependentKeys(t *testing.T) {
	clock := newFakeClock()
	ts := NewTimers(clock.Now)
	other := domain.EvaluationKey{Interviewer: "bob", CandidateID: "260123_Kim"}

	ts.Start(key, time.Minute)
	clock.Advance(10 * time.Second)

	assert.Equal(t, 10, ts.Snapshot(key, time.Minute).ElapsedSeconds)
	assert.Equal(t, 0, ts.Snapshot(other, time.Minute).ElapsedSeconds)
	assert.Equal(t, 1, ts.Running())
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "0:00", FormatRemaining(0))
	assert.Equal(t, "0:00", FormatRemaining(-5))
	assert.Equal(t, "0:59", FormatRemaining(59))
	assert.Equal(t, "12:05", FormatRemaining(725))
}

func TestConfirmations(t *testing.T) {
	clock := newFakeClock()
	c := NewConfirmations(2*time.Minute, clock.Now)

	t.Run("confirm within ttl", func(t *testing.T) {
		conf := c.Request(key)
		require.NotEmpty(t, conf.Token)
		assert.Equal(t, key, conf.Key)
		assert.True(t, c.Confirm(conf.Token, key))
		assert.False(t, c.Confirm(conf.Token, key), "tokens are single use")
	})

	t.Run("wrong key", func(t *testing.T) {
		conf := c.Request(key)
		other := domain.EvaluationKey{Interviewer: "alice", CandidateID: "other"}
		assert.False(t, c.Confirm(conf.Token, other))
		assert.False(t, c.Confirm(conf.Token, key))
	})

	t.Run("expired", func(t *testing.T) {
		conf := c.Request(key)
		clock.Advance(3 * time.Minute)
		assert.False(t, c.Confirm(conf.Token, key))
	})

	t.Run("unknown token", func(t *testing.T) {
		assert.False(t, c.Confirm("nope", key))
	})

	t.Run("expired tokens are swept", func(t *testing.T) {
		c.Request(key)
		c.Request(key)
		assert.Equal(t, 2, c.Pending())
		clock.Advance(3 * time.Minute)
		assert.Equal(t, 0, c.Pending())
	})
}
