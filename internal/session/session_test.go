package session

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// an hour-long interval keeps the background ticker out of the way so the
// tests drive the timer through Tick.
func idleTimer() *Timer {
	return NewTimer(time.Hour)
}

func TestTimer_Lifecycle(t *testing.T) {
	timer := idleTimer()
	ctx := context.Background()

	snap := timer.Snapshot()
	assert.Equal(t, TimerIdle, snap.State)
	assert.Equal(t, "0:00:00", snap.Display)

	snap, err := timer.Start(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Running)

	for i := 0; i < 75; i++ {
		timer.Tick()
	}

	snap, err = timer.Pause()
	require.NoError(t, err)
	assert.Equal(t, TimerPaused, snap.State)
	assert.Equal(t, 75, snap.ElapsedSeconds)
	assert.Equal(t, "0:01:15", snap.Display)

	// Ticks after a pause do not count.
	timer.Tick()
	assert.Equal(t, 75, timer.Snapshot().ElapsedSeconds)

	_, err = timer.Start(ctx)
	require.NoError(t, err)
	timer.Tick()

	elapsed, err := timer.Halt()
	require.NoError(t, err)
	assert.Equal(t, 76, elapsed)
	assert.Equal(t, TimerSaving, timer.Snapshot().State)

	snap = timer.Reset()
	assert.Equal(t, TimerIdle, snap.State)
	assert.Zero(t, snap.ElapsedSeconds)
}

func TestTimer_InvalidTransitions(t *testing.T) {
	timer := idleTimer()

	_, err := timer.Pause()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = timer.Halt()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = timer.Start(context.Background())
	require.NoError(t, err)
	defer timer.Stop()

	_, err = timer.Start(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTimer_SavingBlocksTransitions(t *testing.T) {
	timer := idleTimer()
	ctx := context.Background()

	_, err := timer.Start(ctx)
	require.NoError(t, err)
	for i := 0; i < 60; i++ {
		timer.Tick()
	}

	elapsed, err := timer.Halt()
	require.NoError(t, err)
	assert.Equal(t, 60, elapsed)

	_, err = timer.Halt()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = timer.Start(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = timer.Pause()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	snap := timer.Restore()
	assert.Equal(t, TimerPaused, snap.State)
	assert.Equal(t, 60, snap.ElapsedSeconds)

	// Restored time can be saved again.
	elapsed, err = timer.Halt()
	require.NoError(t, err)
	assert.Equal(t, 60, elapsed)
	assert.Equal(t, TimerIdle, timer.Reset().State)
}

func TestTimer_RestoreOnlyAffectsSaving(t *testing.T) {
	timer := idleTimer()
	assert.Equal(t, TimerIdle, timer.Restore().State)

	_, err := timer.Start(context.Background())
	require.NoError(t, err)
	defer timer.Stop()
	assert.Equal(t, TimerRunning, timer.Restore().State)
}

func TestTimer_TicksInBackground(t *testing.T) {
	timer := NewTimer(5 * time.Millisecond)

	_, err := timer.Start(context.Background())
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return timer.Snapshot().ElapsedSeconds >= 3
	}, 2*time.Second, 5*time.Millisecond)

	snap, err := timer.Pause()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, snap.ElapsedSeconds, 3)
}

func TestTimer_StopsWithParentContext(t *testing.T) {
	timer := NewTimer(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	_, err := timer.Start(ctx)
	require.NoError(t, err)
	cancel()

	// Stop waits for the goroutine, which has already observed ctx.
	timer.Stop()
	assert.Equal(t, TimerPaused, timer.Snapshot().State)
}

func TestFormatElapsed(t *testing.T) {
	tests := map[int]string{
		0:    "0:00:00",
		59:   "0:00:59",
		61:   "0:01:01",
		3600: "1:00:00",
		3725: "1:02:05",
		-4:   "0:00:00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatElapsed(in))
	}
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestManager(ttl time.Duration) (*Manager, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)}
	m := NewManager(ManagerConfig{TTL: ttl, TickInterval: time.Hour}, zerolog.Nop())
	m.now = clock.Now
	return m, clock
}

func TestManager_CreateGetDestroy(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	defer m.Close()

	s := m.Create("ana", false)
	require.NotEmpty(t, s.Token)
	assert.Equal(t, 1, m.Count())

	got, ok := m.Get(s.Token)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, State{
		LoggedIn: true,
		Username: "ana",
		Timer:    TimerSnapshot{State: TimerIdle, Display: "0:00:00"},
	}, got.State())

	_, ok = m.Get("")
	assert.False(t, ok)
	_, ok = m.Get("unknown")
	assert.False(t, ok)

	assert.True(t, m.Destroy(s.Token))
	assert.False(t, m.Destroy(s.Token))
	assert.Error(t, s.Context().Err())
	assert.Zero(t, m.Count())
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	defer m.Close()

	a := m.Create("ana", false)
	b := m.Create("ben", false)
	assert.NotEqual(t, a.Token, b.Token)

	_, err := a.Timer.Start(a.Context())
	require.NoError(t, err)
	a.Timer.Tick()

	assert.Equal(t, 1, a.Timer.Snapshot().ElapsedSeconds)
	assert.Equal(t, TimerIdle, b.Timer.Snapshot().State)
}

func TestManager_Expiry(t *testing.T) {
	m, clock := newTestManager(30 * time.Minute)
	defer m.Close()

	stale := m.Create("ana", false)
	fresh := m.Create("ben", false)

	clock.now = clock.now.Add(20 * time.Minute)
	_, ok := m.Get(fresh.Token)
	require.True(t, ok)

	clock.now = clock.now.Add(15 * time.Minute)
	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Count())
	assert.Error(t, stale.Context().Err())

	clock.now = clock.now.Add(time.Hour)
	_, ok = m.Get(fresh.Token)
	assert.False(t, ok)
	assert.Zero(t, m.Count())
}

func TestManager_CloseStopsRunningTimers(t *testing.T) {
	m, _ := newTestManager(time.Hour)

	s := m.Create("ana", false)
	_, err := s.Timer.Start(s.Context())
	require.NoError(t, err)

	m.Close()
	assert.Zero(t, m.Count())
	assert.False(t, s.Timer.Snapshot().Running)
}

func TestManager_RunStopsOnCancel(t *testing.T) {
	m, clock := newTestManager(time.Minute)
	defer m.Close()

	m.Create("ana", false)
	clock.now = clock.now.Add(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Run(ctx, time.Millisecond)
	}()

	assert.Eventually(t, func() bool { return m.Count() == 0 }, 2*time.Second, time.Millisecond)

	cancel()
	<-done
}
