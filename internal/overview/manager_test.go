package overview

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeComputer struct {
	mu      sync.Mutex
	calls   int
	payload *Overview
	err     error
	// When set, Build blocks until the channel is closed.
	block   chan struct{}
	started chan struct{}
}

func (f *fakeComputer) Build(ctx context.Context) (*Overview, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	started := f.started
	payload, err := f.payload, f.err
	f.mu.Unlock()
	if started != nil {
		close(started)
		f.mu.Lock()
		f.started = nil
		f.mu.Unlock()
	}
	if block != nil {
		<-block
	}
	return payload, err
}

func (f *fakeComputer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(c Computer, ttl time.Duration) *Manager {
	return NewManager(c, ttl, testLogger(), nil)
}

func TestRecomputePublishesSnapshot(t *testing.T) {
	c := &fakeComputer{payload: &Overview{ProjectCount: 7}}
	m := newTestManager(c, time.Minute)

	require.NoError(t, m.Recompute(context.Background()))

	payload, fresh := m.Get(context.Background())
	require.NotNil(t, payload)
	assert.True(t, fresh)
	assert.Equal(t, 7, payload.ProjectCount)
}

func TestGetBeforeFirstCompute(t *testing.T) {
	c := &fakeComputer{payload: &Overview{ProjectCount: 1}}
	m := newTestManager(c, time.Minute)

	payload, fresh := m.Get(context.Background())
	assert.Nil(t, payload)
	assert.False(t, fresh)

	// The miss triggers a background recompute.
	assert.Eventually(t, func() bool {
		p, ok := m.Get(context.Background())
		return ok && p != nil
	}, time.Second, 5*time.Millisecond)
}

func TestOnlyOneRecomputeAtATime(t *testing.T) {
	c := &fakeComputer{
		payload: &Overview{},
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	m := newTestManager(c, time.Minute)

	done := make(chan error, 1)
	started := c.started
	go func() { done <- m.Recompute(context.Background()) }()
	<-started

	err := m.Recompute(context.Background())
	assert.ErrorIs(t, err, ErrRecomputeInFlight)
	assert.True(t, m.State().Recomputing)

	close(c.block)
	require.NoError(t, <-done)
	assert.False(t, m.State().Recomputing)
	assert.Equal(t, 1, c.callCount())
}

func TestSnapshotGoesStaleAfterTTL(t *testing.T) {
	c := &fakeComputer{payload: &Overview{}}
	m := newTestManager(c, 10*time.Minute)
	now := time.Now()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Recompute(context.Background()))
	_, fresh := m.Get(context.Background())
	assert.True(t, fresh)

	now = now.Add(11 * time.Minute)
	payload, fresh := m.Get(context.Background())
	assert.NotNil(t, payload, "stale payload is still served")
	assert.False(t, fresh)
}

func TestFailedRecomputeKeepsPreviousSnapshot(t *testing.T) {
	c := &fakeComputer{payload: &Overview{ProjectCount: 3}}
	m := newTestManager(c, time.Minute)
	require.NoError(t, m.Recompute(context.Background()))

	c.mu.Lock()
	c.err = errors.New("db down")
	c.mu.Unlock()

	err := m.Recompute(context.Background())
	require.Error(t, err)

	payload, _ := m.Get(context.Background())
	require.NotNil(t, payload)
	assert.Equal(t, 3, payload.ProjectCount)
}

func TestForceRefreshRecomputes(t *testing.T) {
	c := &fakeComputer{payload: &Overview{ProjectCount: 1}}
	m := newTestManager(c, time.Minute)
	require.NoError(t, m.Recompute(context.Background()))

	c.mu.Lock()
	c.payload = &Overview{ProjectCount: 2}
	c.mu.Unlock()

	require.NoError(t, m.ForceRefresh(context.Background()))
	payload, fresh := m.Get(context.Background())
	assert.True(t, fresh)
	assert.Equal(t, 2, payload.ProjectCount)
	assert.Equal(t, 2, c.callCount())
}

func TestForceRefreshWhileRecomputeRunning(t *testing.T) {
	c := &fakeComputer{
		payload: &Overview{ProjectCount: 1},
		started: make(chan struct{}),
	}
	m := newTestManager(c, time.Minute)
	require.NoError(t, m.Recompute(context.Background()))

	c.mu.Lock()
	c.block = make(chan struct{})
	c.started = make(chan struct{})
	started := c.started
	c.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- m.Recompute(context.Background()) }()
	<-started

	err := m.ForceRefresh(context.Background())
	assert.ErrorIs(t, err, ErrRecomputeInFlight)
	// The expiry still landed: the old payload is now served as stale.
	_, fresh := m.Get(context.Background())
	assert.False(t, fresh)

	close(c.block)
	require.NoError(t, <-done)
}

func TestStateReporting(t *testing.T) {
	c := &fakeComputer{payload: &Overview{}}
	m := newTestManager(c, 10*time.Minute)

	info := m.State()
	assert.False(t, info.Fresh)
	assert.Nil(t, info.ComputedAt)
	assert.Equal(t, 600.0, info.TTLSeconds)

	require.NoError(t, m.Recompute(context.Background()))
	info = m.State()
	assert.True(t, info.Fresh)
	require.NotNil(t, info.ComputedAt)
}

func TestRunComputesImmediately(t *testing.T) {
	c := &fakeComputer{payload: &Overview{ProjectCount: 5}}
	m := newTestManager(c, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx, time.Hour)

	assert.Eventually(t, func() bool {
		p, _ := m.Get(context.Background())
		return p != nil && p.ProjectCount == 5
	}, time.Second, 5*time.Millisecond)
}
