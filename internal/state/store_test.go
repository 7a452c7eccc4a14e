package state

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/axedeck/internal/bitaxe"
)

type fetchResult struct {
	rec bitaxe.Record
	err error
}

// gatedFetcher blocks every call until the test releases it with a result.
type gatedFetcher struct {
	mu      sync.Mutex
	calls   map[string]int
	pending map[string][]chan fetchResult
	started chan string
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{
		calls:   make(map[string]int),
		pending: make(map[string][]chan fetchResult),
		started: make(chan string, 64),
	}
}

func (f *gatedFetcher) FetchInfo(ctx context.Context, address string) (bitaxe.Record, error) {
	ch := make(chan fetchResult, 1)
	f.mu.Lock()
	f.calls[address]++
	f.pending[address] = append(f.pending[address], ch)
	f.mu.Unlock()
	f.started <- address

	select {
	case res := <-ch:
		return res.rec, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// release answers the oldest outstanding call for address.
func (f *gatedFetcher) release(t *testing.T, address string, rec bitaxe.Record, err error) {
	t.Helper()
	f.mu.Lock()
	queue := f.pending[address]
	if len(queue) == 0 {
		f.mu.Unlock()
		t.Fatalf("no outstanding fetch for %s", address)
	}
	ch := queue[0]
	f.pending[address] = queue[1:]
	f.mu.Unlock()
	ch <- fetchResult{rec: rec, err: err}
}

func (f *gatedFetcher) callCount(address string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[address]
}

func (f *gatedFetcher) awaitStarted(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-f.started:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of %d fetches started", i, n)
		}
	}
}

func waitIdle(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func TestStore_ReconcileStartsLoadingSlotsInOrder(t *testing.T) {
	f := newGatedFetcher()
	s := NewStore(f, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	gen := s.Reconcile(ctx, []string{"1.2.3.4", "5.6.7.8", "5.6.7.8"})
	assert.Equal(t, uint64(1), gen)

	snap := s.Snapshot()
	require.Len(t, snap.Slots, 3)
	assert.Equal(t, []string{"1.2.3.4", "5.6.7.8", "5.6.7.8"}, snap.Addresses())
	for _, slot := range snap.Slots {
		assert.True(t, slot.InFlight)
		assert.Nil(t, slot.Record)
		assert.Nil(t, slot.Failure)
	}

	f.awaitStarted(t, 3)
	assert.Equal(t, 2, f.callCount("5.6.7.8"), "duplicate addresses fetch independently")
}

func TestStore_ResultsUpdateOnlyTheirSlot(t *testing.T) {
	f := newGatedFetcher()
	s := NewStore(f, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s.Reconcile(ctx, []string{"a", "b"})
	f.awaitStarted(t, 2)

	f.release(t, "b", nil, errors.New("boom"))
	require.Eventually(t, func() bool { return !s.Snapshot().Slots[1].InFlight }, 2*time.Second, 5*time.Millisecond)

	snap := s.Snapshot()
	assert.True(t, snap.Slots[0].InFlight, "a is still loading")
	assert.True(t, snap.Slots[1].Failed())
	assert.Nil(t, snap.Slots[1].Record)
	assert.Equal(t, 1, snap.PendingCount())

	f.release(t, "a", bitaxe.Record{"hostname": "miner1"}, nil)
	waitIdle(t, s)

	snap = s.Snapshot()
	assert.False(t, snap.Slots[0].InFlight)
	assert.Nil(t, snap.Slots[0].Failure)
	assert.Equal(t, "miner1", snap.Slots[0].Record.Hostname())
	assert.False(t, snap.AllFailed())
	assert.False(t, snap.LastUpdated.IsZero())
}

func TestStore_StaleGenerationResultIsDiscarded(t *testing.T) {
	f := newGatedFetcher()
	s := NewStore(f, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s.Reconcile(ctx, []string{"A"})
	f.awaitStarted(t, 1)

	gen2 := s.Reconcile(ctx, []string{"A", "B"})
	f.awaitStarted(t, 2)

	// The first-generation fetch for A resolves late.
	f.release(t, "A", bitaxe.Record{"hostname": "stale"}, nil)
	time.Sleep(20 * time.Millisecond)

	snap := s.Snapshot()
	assert.Equal(t, gen2, snap.Generation)
	assert.True(t, snap.Slots[0].InFlight, "stale result must not settle the new slot")
	assert.Nil(t, snap.Slots[0].Record)

	f.release(t, "A", bitaxe.Record{"hostname": "fresh"}, nil)
	f.release(t, "B", nil, errors.New("down"))
	waitIdle(t, s)

	snap = s.Snapshot()
	assert.Equal(t, "fresh", snap.Slots[0].Record.Hostname())
	assert.True(t, snap.Slots[1].Failed())
}

func TestStore_FailureClearsRecordAndSuccessClearsFailure(t *testing.T) {
	f := newGatedFetcher()
	s := NewStore(f, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s.Reconcile(ctx, []string{"a"})
	f.awaitStarted(t, 1)
	f.release(t, "a", bitaxe.Record{"temp": 50.0}, nil)
	waitIdle(t, s)

	require.Equal(t, 1, s.Refresh(ctx))
	f.awaitStarted(t, 1)

	snap := s.Snapshot()
	assert.True(t, snap.Slots[0].Refreshing)
	assert.False(t, snap.Slots[0].InFlight, "refresh keeps the previous record visible")
	assert.Equal(t, 50.0, snap.Slots[0].Record["temp"])

	f.release(t, "a", nil, errors.New("gone"))
	waitIdle(t, s)
	snap = s.Snapshot()
	assert.Nil(t, snap.Slots[0].Record)
	assert.EqualError(t, snap.Slots[0].Failure, "gone")
	assert.True(t, snap.AllFailed())

	s.Refresh(ctx)
	f.awaitStarted(t, 1)
	f.release(t, "a", bitaxe.Record{"temp": 51.0}, nil)
	waitIdle(t, s)
	snap = s.Snapshot()
	assert.Nil(t, snap.Slots[0].Failure)
	assert.Equal(t, 51.0, snap.Slots[0].Record["temp"])
}

func TestStore_RefreshSkipsOutstandingSlots(t *testing.T) {
	f := newGatedFetcher()
	s := NewStore(f, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s.Reconcile(ctx, []string{"a", "b"})
	f.awaitStarted(t, 2)
	f.release(t, "a", bitaxe.Record{}, nil)
	require.Eventually(t, func() bool { return !s.Snapshot().Slots[0].Pending() }, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, s.Refresh(ctx), "only the settled slot is re-polled")
	f.awaitStarted(t, 1)
	assert.Equal(t, 0, s.Refresh(ctx))
	assert.Equal(t, 1, f.callCount("b"))

	f.release(t, "a", bitaxe.Record{}, nil)
	f.release(t, "b", bitaxe.Record{}, nil)
	waitIdle(t, s)
}

func TestStore_EmptyReconcileIsIdle(t *testing.T) {
	f := newGatedFetcher()
	s := NewStore(f, nil)

	s.Reconcile(context.Background(), nil)
	waitIdle(t, s)

	snap := s.Snapshot()
	assert.Empty(t, snap.Slots)
	assert.False(t, snap.AllFailed())
	assert.Equal(t, 0, f.callCount(""))
	assert.Equal(t, 0, s.Refresh(context.Background()))
}

func TestStore_SnapshotIsIndependentCopy(t *testing.T) {
	f := newGatedFetcher()
	s := NewStore(f, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s.Reconcile(ctx, []string{"a"})
	f.awaitStarted(t, 1)
	f.release(t, "a", bitaxe.Record{"hostname": "miner1"}, nil)
	waitIdle(t, s)

	snap := s.Snapshot()
	snap.Slots[0].Record["hostname"] = "mutated"
	snap.Slots[0].Address = "mutated"

	again := s.Snapshot()
	assert.Equal(t, "miner1", again.Slots[0].Record.Hostname())
	assert.Equal(t, "a", again.Slots[0].Address)
}

func TestStore_UpdatesAnnounceCommits(t *testing.T) {
	f := newGatedFetcher()
	s := NewStore(f, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	gen := s.Reconcile(ctx, []string{"a"})
	u := <-s.Updates()
	assert.Equal(t, Update{Generation: gen, Index: -1}, u)

	f.awaitStarted(t, 1)
	f.release(t, "a", bitaxe.Record{}, nil)

	select {
	case u = <-s.Updates():
		assert.Equal(t, Update{Generation: gen, Index: 0, Address: "a"}, u)
	case <-time.After(2 * time.Second):
		t.Fatal("no update after commit")
	}
}

func TestStore_WaitFollowsNewGeneration(t *testing.T) {
	f := newGatedFetcher()
	s := NewStore(f, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s.Reconcile(ctx, []string{"a"})
	f.awaitStarted(t, 1)

	done := make(chan error, 1)
	go func() {
		waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer waitCancel()
		done <- s.Wait(waitCtx)
	}()

	s.Reconcile(ctx, []string{"b"})
	f.awaitStarted(t, 1)

	select {
	case err := <-done:
		t.Fatalf("Wait returned early: %v", err)
	case <-time.After(30 * time.Millisecond):
	}

	f.release(t, "b", bitaxe.Record{}, nil)
	require.NoError(t, <-done)
}

func TestStore_WaitHonorsContext(t *testing.T) {
	f := newGatedFetcher()
	s := NewStore(f, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s.Reconcile(ctx, []string{"a"})
	f.awaitStarted(t, 1)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer waitCancel()
	assert.ErrorIs(t, s.Wait(waitCtx), context.DeadlineExceeded)
}

func TestCommit_RejectsOutOfRangeIndex(t *testing.T) {
	s := NewStore(newGatedFetcher(), nil)
	assert.False(t, s.commit(0, 0, nil, nil))
	assert.False(t, s.commit(0, -1, nil, nil))
}
