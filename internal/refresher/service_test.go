package refresher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"marketScope/internal/cache"
	"marketScope/internal/model"
	"marketScope/internal/pipeline"
)

type fakeRunner struct {
	mu      sync.Mutex
	calls   int
	err     error
	at      time.Time
	release chan struct{}
	ctxErr  error
}

func (f *fakeRunner) Run(ctx context.Context) (pipeline.Cycle, error) {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.ctxErr = ctx.Err()
	if f.err != nil {
		return pipeline.Cycle{}, f.err
	}
	return pipeline.Cycle{
		Records:     []model.ResultRecord{{ID: fmt.Sprintf("run-%d", f.calls)}},
		CompletedAt: f.at,
	}, nil
}

func (f *fakeRunner) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type memStore struct {
	mu    sync.Mutex
	entry cache.Entry
	ok    bool
	err   error
	saves int
}

func (m *memStore) Load(context.Context) (cache.Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entry, m.ok, m.err
}

func (m *memStore) Save(_ context.Context, entry cache.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry, m.ok, m.err = entry, true, nil
	m.saves++
	return nil
}

var testNow = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestService(runner Runner, store cache.Store) *Service {
	s := New(runner, store, cache.DefaultPolicy(), nil)
	s.now = func() time.Time { return testNow }
	return s
}

func storedEntry(age time.Duration) cache.Entry {
	return cache.NewEntry(testNow.Add(-age), []model.ResultRecord{{ID: "cached"}})
}

func TestCheckWithoutEntryRefreshesSynchronously(t *testing.T) {
	runner := &fakeRunner{at: testNow}
	store := &memStore{}
	s := newTestService(runner, store)

	entry, err := s.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, runner.Calls())
	require.Equal(t, "run-1", entry.Data[0].ID)
	require.Equal(t, 1, store.saves)
	require.Equal(t, testNow.UnixMilli(), store.entry.Timestamp)
}

func TestCheckFreshEntryServedAsIs(t *testing.T) {
	runner := &fakeRunner{at: testNow}
	s := newTestService(runner, &memStore{entry: storedEntry(5 * time.Minute), ok: true})

	entry, err := s.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, "cached", entry.Data[0].ID)
	s.Wait()
	require.Zero(t, runner.Calls())

	current, ok := s.Current()
	require.True(t, ok)
	require.Equal(t, "cached", current.Data[0].ID)
}

func TestCheckStaleEntryServedWhileRefreshing(t *testing.T) {
	runner := &fakeRunner{at: testNow}
	s := newTestService(runner, &memStore{entry: storedEntry(35 * time.Minute), ok: true})

	entry, err := s.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, "cached", entry.Data[0].ID)

	s.Wait()
	require.Equal(t, 1, runner.Calls())
	current, _ := s.Current()
	require.Equal(t, "run-1", current.Data[0].ID)
}

func TestCheckExpiredEntryRefreshesFirst(t *testing.T) {
	runner := &fakeRunner{at: testNow}
	s := newTestService(runner, &memStore{entry: storedEntry(90 * time.Minute), ok: true})

	entry, err := s.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, runner.Calls())
	require.Equal(t, "run-1", entry.Data[0].ID)
}

func TestCheckCorruptEntryRefreshesFirst(t *testing.T) {
	runner := &fakeRunner{at: testNow}
	store := &memStore{err: fmt.Errorf("%w: bad json", cache.ErrCorrupt)}
	s := newTestService(runner, store)

	entry, err := s.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, runner.Calls())
	require.Equal(t, "run-1", entry.Data[0].ID)
}

func TestRefreshFailureKeepsPreviousRecords(t *testing.T) {
	runner := &fakeRunner{at: testNow}
	s := newTestService(runner, &memStore{})
	require.NoError(t, s.Refresh(context.Background()))

	runner.err = errors.New("rpc unavailable")
	err := s.Refresh(context.Background())
	require.Error(t, err)

	current, ok := s.Current()
	require.True(t, ok)
	require.Equal(t, "run-1", current.Data[0].ID)
}

func TestCheckFailureWithoutPreviousRecords(t *testing.T) {
	runner := &fakeRunner{err: errors.New("rpc unavailable")}
	s := newTestService(runner, &memStore{})

	_, err := s.Check(context.Background())
	require.Error(t, err)
	_, ok := s.Current()
	require.False(t, ok)
}

func TestBackgroundRefreshOutlivesRequest(t *testing.T) {
	runner := &fakeRunner{at: testNow, release: make(chan struct{})}
	s := newTestService(runner, &memStore{entry: storedEntry(20 * time.Minute), ok: true})

	ctx, cancel := context.WithCancel(context.Background())
	_, err := s.Check(ctx)
	require.NoError(t, err)
	cancel()
	close(runner.release)
	s.Wait()

	require.Equal(t, 1, runner.Calls())
	require.NoError(t, runner.ctxErr)
}

func TestStaleChecksShareOneBackgroundRefresh(t *testing.T) {
	runner := &fakeRunner{at: testNow, release: make(chan struct{})}
	s := newTestService(runner, &memStore{entry: storedEntry(20 * time.Minute), ok: true})

	for i := 0; i < 3; i++ {
		_, err := s.Check(context.Background())
		require.NoError(t, err)
	}
	close(runner.release)
	s.Wait()
	require.Equal(t, 1, runner.Calls())
}

func TestInMemoryEntryUsedWithoutStore(t *testing.T) {
	runner := &fakeRunner{at: testNow}
	s := New(runner, nil, cache.DefaultPolicy(), nil)
	s.now = func() time.Time { return testNow }

	_, err := s.Check(context.Background())
	require.NoError(t, err)
	_, err = s.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, runner.Calls(), "fresh in-memory entry must not trigger another cycle")
}

func TestRunStopsOnCancel(t *testing.T) {
	runner := &fakeRunner{at: testNow}
	s := newTestService(runner, &memStore{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Hour)
		close(done)
	}()

	require.Eventually(t, func() bool { return runner.Calls() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}
