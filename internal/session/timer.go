package session

import (
	"fmt"
	"sync"
	"time"

	"interviewcheck/pkg/contracts/domain"
	"interviewcheck/pkg/contracts/events"
)

// timer is the countdown of one interview. elapsed accumulates paused time
// segments; startedAt is only meaningful while running.
type timer struct {
	total     time.Duration
	elapsed   time.Duration
	startedAt time.Time
	running   bool
}

func (t *timer) elapsedAt(now time.Time) time.Duration {
	e := t.elapsed
	if t.running {
		if d := now.Sub(t.startedAt); d > 0 {
			e += d
		}
	}
	return e
}

// Timers holds the countdown timers of all interviews in progress. The state
// is transient and never written to a result file.
type Timers struct {
	mu     sync.Mutex
	now    func() time.Time
	timers map[domain.EvaluationKey]*timer

	// OnRunningChanged, when set, is called with the number of running timers
	// after every change. It is called with the lock held and must not call back.
	OnRunningChanged func(running int)
}

// NewTimers creates an empty timer set. A nil clock uses time.Now.
func NewTimers(now func() time.Time) *Timers {
	if now == nil {
		now = time.Now
	}
	return &Timers{
		now:    now,
		timers: make(map[domain.EvaluationKey]*timer),
	}
}

func (ts *Timers) get(key domain.EvaluationKey, total time.Duration) *timer {
	t, ok := ts.timers[key]
	if !ok {
		t = &timer{total: total}
		ts.timers[key] = t
	}
	return t
}

// Start starts or resumes the countdown. total sets the length of a timer
// that has not run yet; once started the length is fixed until Reset.
func (ts *Timers) Start(key domain.EvaluationKey, total time.Duration) events.TimerSnapshot {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	t := ts.get(key, total)
	if t.elapsed == 0 && !t.running {
		t.total = total
	}
	if !t.running {
		t.running = true
		t.startedAt = ts.now()
	}
	ts.notify()
	return ts.snapshot(key, t)
}

// Pause stops the countdown, keeping the elapsed time.
func (ts *Timers) Pause(key domain.EvaluationKey, total time.Duration) events.TimerSnapshot {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	t := ts.get(key, total)
	if t.running {
		t.elapsed = t.elapsedAt(ts.now())
		t.running = false
	}
	ts.notify()
	return ts.snapshot(key, t)
}

// Reset stops the countdown and clears the elapsed time.
func (ts *Timers) Reset(key domain.EvaluationKey, total time.Duration) events.TimerSnapshot {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	t := &timer{total: total}
	ts.timers[key] = t
	ts.notify()
	return ts.snapshot(key, t)
}

// Snapshot returns the current state. A timer never started reads as a full,
// stopped countdown of length total.
func (ts *Timers) Snapshot(key domain.EvaluationKey, total time.Duration) events.TimerSnapshot {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	t, ok := ts.timers[key]
	if !ok {
		t = &timer{total: total}
	}
	return ts.snapshot(key, t)
}

// Running returns the number of running timers.
func (ts *Timers) Running() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.running()
}

func (ts *Timers) running() int {
	n := 0
	for _, t := range ts.timers {
		if t.running {
			n++
		}
	}
	return n
}

func (ts *Timers) notify() {
	if ts.OnRunningChanged != nil {
		ts.OnRunningChanged(ts.running())
	}
}

func (ts *Timers) snapshot(key domain.EvaluationKey, t *timer) events.TimerSnapshot {
	elapsed := t.elapsedAt(ts.now())
	remaining := t.total - elapsed
	if remaining < 0 {
		remaining = 0
	}

	progress := 0.0
	if t.total > 0 {
		progress = float64(elapsed) / float64(t.total)
		if progress > 1 {
			progress = 1
		}
	}

	remainingSec := int(remaining / time.Second)
	return events.TimerSnapshot{
		Interviewer:      key.Interviewer,
		CandidateID:      key.CandidateID,
		Running:          t.running,
		Expired:          remaining <= 0,
		TotalSeconds:     int(t.total / time.Second),
		ElapsedSeconds:   int(elapsed / time.Second),
		RemainingSeconds: remainingSec,
		Remaining:        FormatRemaining(remainingSec),
		Progress:         progress,
	}
}

// FormatRemaining renders seconds as m:ss.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
