// Package topic assigns each owner a stable storage lane (a forum topic in
// the shared storage group) so relayed content from different users never
// mixes.
package topic

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sync/singleflight"
)

// ErrNoLane is returned by a LaneStore when no lane is recorded for an owner.
var ErrNoLane = errors.New("no lane for owner")

// ErrLaneCreation is returned when the platform refuses to create a lane,
// typically because the bot lacks admin rights in the storage group.
var ErrLaneCreation = errors.New("lane creation failed")

// LaneStore persists the owner → lane mapping. *Repository is the production
// implementation.
type LaneStore interface {
	// Get returns the lane recorded for ownerID, or ErrNoLane.
	Get(ctx context.Context, ownerID int64) (int64, error)
	// Save records a lane for ownerID. If a concurrent writer got there
	// first, the stored lane wins and is returned instead.
	Save(ctx context.Context, ownerID, laneID int64) (int64, error)
}

// LaneCreator creates a new lane on the messaging platform. The gateway
// implements this.
type LaneCreator interface {
	CreateLane(ctx context.Context, label string) (int64, error)
}

// Router hands out at most one lane per owner. Concurrent first uploads by
// the same owner are collapsed into a single create through singleflight;
// the store's insert-if-absent covers writers outside this process.
type Router struct {
	store   LaneStore
	creator LaneCreator
	group   singleflight.Group
}

// NewRouter creates a Router over the given store and platform collaborator.
func NewRouter(store LaneStore, creator LaneCreator) *Router {
	return &Router{store: store, creator: creator}
}

// EnsureLane returns the owner's lane, creating and persisting one on first
// use. The read path has no side effects. A platform refusal surfaces as
// ErrLaneCreation with nothing persisted, so a later upload retries cleanly.
func (r *Router) EnsureLane(ctx context.Context, ownerID int64, label string) (int64, error) {
	v, err, _ := r.group.Do(strconv.FormatInt(ownerID, 10), func() (any, error) {
		lane, err := r.store.Get(ctx, ownerID)
		if err == nil {
			return lane, nil
		}
		if !errors.Is(err, ErrNoLane) {
			return int64(0), fmt.Errorf("look up lane: %w", err)
		}

		lane, err = r.creator.CreateLane(ctx, label)
		if err != nil {
			return int64(0), fmt.Errorf("%w: %v", ErrLaneCreation, err)
		}

		stored, err := r.store.Save(ctx, ownerID, lane)
		if err != nil {
			return int64(0), fmt.Errorf("persist lane: %w", err)
		}
		return stored, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}
