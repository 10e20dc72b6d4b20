package topic_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sid743/TG-cloud-storage/internal/topic"
)

// memLanes is an in-memory LaneStore with the repository's insert-if-absent
// contract.
type memLanes struct {
	mu      sync.Mutex
	lanes   map[int64]int64
	getErr  error
	saveErr error
}

func newMemLanes() *memLanes {
	return &memLanes{lanes: make(map[int64]int64)}
}

func (m *memLanes) Get(_ context.Context, ownerID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return 0, m.getErr
	}
	lane, ok := m.lanes[ownerID]
	if !ok {
		return 0, topic.ErrNoLane
	}
	return lane, nil
}

func (m *memLanes) Save(_ context.Context, ownerID, laneID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	if stored, ok := m.lanes[ownerID]; ok {
		return stored, nil
	}
	m.lanes[ownerID] = laneID
	return laneID, nil
}

// fakeCreator counts platform lane creations and can be slowed down to widen
// race windows.
type fakeCreator struct {
	calls int32
	delay time.Duration
	err   error
}

func (f *fakeCreator) CreateLane(_ context.Context, _ string) (int64, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return 0, f.err
	}
	return int64(1000 + n), nil
}

func TestRouterEnsureLane(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates on first use, reuses afterwards", func(t *testing.T) {
		t.Parallel()

		store := newMemLanes()
		creator := &fakeCreator{}
		r := topic.NewRouter(store, creator)

		lane, err := r.EnsureLane(ctx, 7, "Alice (7)")
		require.NoError(t, err)
		require.Equal(t, int64(1001), lane)

		again, err := r.EnsureLane(ctx, 7, "Alice (7)")
		require.NoError(t, err)
		require.Equal(t, lane, again)
		require.Equal(t, int32(1), atomic.LoadInt32(&creator.calls))
	})

	t.Run("concurrent first uploads create exactly one lane", func(t *testing.T) {
		t.Parallel()

		store := newMemLanes()
		creator := &fakeCreator{delay: 10 * time.Millisecond}
		r := topic.NewRouter(store, creator)

		const n = 20
		lanes := make([]int64, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				lane, err := r.EnsureLane(ctx, 7, "Alice (7)")
				require.NoError(t, err)
				lanes[i] = lane
			}(i)
		}
		wg.Wait()

		require.Equal(t, int32(1), atomic.LoadInt32(&creator.calls))
		for _, lane := range lanes {
			require.Equal(t, lanes[0], lane)
		}
	})

	t.Run("distinct owners get distinct lanes", func(t *testing.T) {
		t.Parallel()

		store := newMemLanes()
		r := topic.NewRouter(store, &fakeCreator{})

		var wg sync.WaitGroup
		var laneU, laneV int64
		wg.Add(2)
		go func() {
			defer wg.Done()
			var err error
			laneU, err = r.EnsureLane(ctx, 1, "U (1)")
			require.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			var err error
			laneV, err = r.EnsureLane(ctx, 2, "V (2)")
			require.NoError(t, err)
		}()
		wg.Wait()

		require.NotEqual(t, laneU, laneV)
	})

	t.Run("platform refusal is ErrLaneCreation and persists nothing", func(t *testing.T) {
		t.Parallel()

		store := newMemLanes()
		creator := &fakeCreator{err: errors.New("not enough rights")}
		r := topic.NewRouter(store, creator)

		_, err := r.EnsureLane(ctx, 7, "Alice (7)")
		require.ErrorIs(t, err, topic.ErrLaneCreation)
		require.Empty(t, store.lanes)

		// A later attempt retries cleanly once the platform recovers.
		creator.err = nil
		lane, err := r.EnsureLane(ctx, 7, "Alice (7)")
		require.NoError(t, err)
		require.NotZero(t, lane)
	})

	t.Run("store race resolves to the stored lane", func(t *testing.T) {
		t.Parallel()

		store := newMemLanes()
		store.lanes[7] = 555
		r := topic.NewRouter(store, &fakeCreator{})

		lane, err := r.EnsureLane(ctx, 7, "Alice (7)")
		require.NoError(t, err)
		require.Equal(t, int64(555), lane)
	})

	t.Run("store lookup failure surfaces", func(t *testing.T) {
		t.Parallel()

		store := newMemLanes()
		store.getErr = errors.New("connection refused")
		r := topic.NewRouter(store, &fakeCreator{})

		_, err := r.EnsureLane(ctx, 7, "Alice (7)")
		require.Error(t, err)
		require.NotErrorIs(t, err, topic.ErrLaneCreation)
	})
}
