package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/BearBump/ClaimBox/internal/models"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu    sync.Mutex
	calls int
	due   []*models.ReturnCheck
	err   error
}

func (r *fakeRepo) ClaimDueReturnChecks(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]*models.ReturnCheck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	due := r.due
	r.due = nil
	return due, r.err
}

func (r *fakeRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestPoller_Run_StopsOnContextCancel(t *testing.T) {
	repo := &fakeRepo{}
	p := New(repo, &fakeCarrier{}, &fakeProducer{}, nil, "t").WithSettings(5*time.Millisecond, 1, 1, time.Second, 1)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.GreaterOrEqual(t, repo.callCount(), 1)
}

func TestPoller_runOnce_processesBatch(t *testing.T) {
	repo := &fakeRepo{due: []*models.ReturnCheck{check(0), check(1), check(0)}}
	fp := &fakeProducer{}
	p := newTestPoller(&fakeCarrier{}, fp, nil)
	p.repo = repo

	p.runOnce(context.Background())

	st := p.Stats()
	require.Equal(t, int64(3), st.TotalLeased)
	require.Equal(t, int64(3), st.TotalProcessed)
	require.Equal(t, int64(0), st.TotalErrors)
	require.Equal(t, int64(0), st.InFlight)
	require.NotNil(t, st.LastCycleAt)
	require.Equal(t, 3, fp.calls)
}

func TestPoller_runOnce_repoError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("db down")}
	p := newTestPoller(&fakeCarrier{}, &fakeProducer{}, nil)
	p.repo = repo

	p.runOnce(context.Background())
	require.Equal(t, "db down", p.Stats().LastError)
	require.Equal(t, int64(0), p.Stats().TotalProcessed)
}

func TestPoller_Trigger(t *testing.T) {
	repo := &fakeRepo{}
	p := New(repo, &fakeCarrier{}, &fakeProducer{}, nil, "t").WithSettings(time.Hour, 1, 1, time.Second, 1)

	// triggers coalesce into one pending cycle
	p.Trigger()
	p.Trigger()
	require.NotNil(t, p.Stats().LastTriggerAt)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return repo.callCount() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	require.Equal(t, 1, repo.callCount())
}
