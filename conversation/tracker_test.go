package conversation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AVVKavvk/sahay-call-agent/models"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestTracker(ttl time.Duration) (*MemoryTracker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	tr := NewMemoryTracker(ttl, models.Hindi)
	tr.now = clock.Now
	return tr, clock
}

func TestMemoryTrackerDefaultsToInitialState(t *testing.T) {
	tr, _ := newTestTracker(time.Minute)

	st, err := tr.Get("CA123")
	require.NoError(t, err)
	assert.Equal(t, models.InitialState("CA123", models.Hindi), st)
}

func TestMemoryTrackerPutGetReset(t *testing.T) {
	tr, clock := newTestTracker(time.Minute)

	require.NoError(t, tr.Put(models.CallState{CallID: "CA1", Step: models.StepTaskCheck, Language: models.Gujarati}))

	st, err := tr.Get("CA1")
	require.NoError(t, err)
	assert.Equal(t, models.StepTaskCheck, st.Step)
	assert.Equal(t, models.Gujarati, st.Language)
	assert.Equal(t, clock.Now(), st.UpdatedAt)

	require.NoError(t, tr.Reset("CA1"))
	st, err = tr.Get("CA1")
	require.NoError(t, err)
	assert.Equal(t, models.StepIntro, st.Step)
}

func TestMemoryTrackerExpiry(t *testing.T) {
	tr, clock := newTestTracker(10 * time.Minute)

	require.NoError(t, tr.Put(models.CallState{CallID: "old", Step: models.StepTaskPending}))
	clock.Advance(6 * time.Minute)
	require.NoError(t, tr.Put(models.CallState{CallID: "new", Step: models.StepTaskCheck}))
	clock.Advance(5 * time.Minute)

	st, err := tr.Get("old")
	require.NoError(t, err)
	assert.Equal(t, models.StepIntro, st.Step, "expired call reads as a fresh one")

	st, err = tr.Get("new")
	require.NoError(t, err)
	assert.Equal(t, models.StepTaskCheck, st.Step)

	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, 1, tr.Sweep())
	assert.Equal(t, 1, tr.Len())
}

func TestMemoryTrackerRunStopsWithContext(t *testing.T) {
	tr := NewMemoryTracker(time.Nanosecond, models.English)
	require.NoError(t, tr.Put(models.CallState{CallID: "CA1"}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tr.Run(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return tr.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
