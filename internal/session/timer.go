package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrInvalidTransition = errors.New("invalid timer transition")

type TimerState string

const (
	TimerIdle    TimerState = "idle"
	TimerRunning TimerState = "running"
	TimerPaused  TimerState = "paused"
	// TimerSaving holds the elapsed time while a save is being stored.
	TimerSaving TimerState = "saving"
)

type TimerSnapshot struct {
	State          TimerState `json:"state"`
	Running        bool       `json:"running"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
	Display        string     `json:"display"`
}

// Timer is the focus stopwatch of one session. While running, a background
// goroutine adds one second of elapsed time per tick; callers only ever
// read the counter, so no request waits on the clock.
type Timer struct {
	interval time.Duration

	mu      sync.Mutex
	state   TimerState
	elapsed int
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewTimer(interval time.Duration) *Timer {
	if interval <= 0 {
		interval = time.Second
	}
	return &Timer{
		interval: interval,
		state:    TimerIdle,
	}
}

// Start moves idle or paused to running. The ticking goroutine stops when
// parent is cancelled, which ties it to the owning session.
func (t *Timer) Start(parent context.Context) (TimerSnapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case TimerRunning:
		return t.snapshotLocked(), fmt.Errorf("%w: timer is already running", ErrInvalidTransition)
	case TimerSaving:
		return t.snapshotLocked(), fmt.Errorf("%w: timer is being saved", ErrInvalidTransition)
	}

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done
	t.state = TimerRunning

	go t.run(ctx, done)

	return t.snapshotLocked(), nil
}

// Pause moves running to paused and keeps the elapsed time.
func (t *Timer) Pause() (TimerSnapshot, error) {
	t.mu.Lock()
	if t.state != TimerRunning {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		return snap, fmt.Errorf("%w: timer is not running", ErrInvalidTransition)
	}
	t.state = TimerPaused
	cancel, done := t.detachLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	stop(cancel, done)
	return snap, nil
}

// Halt stops a running or paused timer, moves it to saving and reports the
// elapsed seconds. Until Reset or Restore runs, every other transition
// fails, so one run is saved at most once.
func (t *Timer) Halt() (int, error) {
	t.mu.Lock()
	switch t.state {
	case TimerIdle:
		t.mu.Unlock()
		return 0, fmt.Errorf("%w: timer has not been started", ErrInvalidTransition)
	case TimerSaving:
		t.mu.Unlock()
		return 0, fmt.Errorf("%w: timer is already being saved", ErrInvalidTransition)
	}
	t.state = TimerSaving
	cancel, done := t.detachLocked()
	elapsed := t.elapsed
	t.mu.Unlock()

	stop(cancel, done)
	return elapsed, nil
}

// Restore puts a saving timer back to paused with its elapsed time, for when
// the save could not be stored.
func (t *Timer) Restore() TimerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == TimerSaving {
		t.state = TimerPaused
	}
	return t.snapshotLocked()
}

// Reset returns the timer to idle with zero elapsed time.
func (t *Timer) Reset() TimerSnapshot {
	t.mu.Lock()
	t.state = TimerIdle
	t.elapsed = 0
	cancel, done := t.detachLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	stop(cancel, done)
	return snap
}

// Stop ends the ticking goroutine, if any, without changing the state. It is
// called when the owning session goes away.
func (t *Timer) Stop() {
	t.mu.Lock()
	if t.state == TimerRunning {
		t.state = TimerPaused
	}
	cancel, done := t.detachLocked()
	t.mu.Unlock()

	stop(cancel, done)
}

// Tick adds one second to a running timer. Ticks arriving after a pause are
// ignored.
func (t *Timer) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == TimerRunning {
		t.elapsed++
	}
}

func (t *Timer) Snapshot() TimerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.snapshotLocked()
}

func (t *Timer) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Tick()
		}
	}
}

func (t *Timer) detachLocked() (context.CancelFunc, chan struct{}) {
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	return cancel, done
}

func (t *Timer) snapshotLocked() TimerSnapshot {
	return TimerSnapshot{
		State:          t.state,
		Running:        t.state == TimerRunning,
		ElapsedSeconds: t.elapsed,
		Display:        FormatElapsed(t.elapsed),
	}
}

// stop must be called without t.mu held: the goroutine may be blocked in
// Tick waiting for the lock.
func stop(cancel context.CancelFunc, done chan struct{}) {
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// FormatElapsed renders seconds as H:MM:SS.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}
