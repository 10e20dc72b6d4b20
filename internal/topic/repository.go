package topic

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists owner → lane mappings in PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Get returns the lane recorded for ownerID, or ErrNoLane.
func (r *Repository) Get(ctx context.Context, ownerID int64) (int64, error) {
	var laneID int64
	err := r.db.QueryRow(ctx,
		`SELECT lane_id FROM lanes WHERE owner_id = $1`,
		ownerID,
	).Scan(&laneID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNoLane
	}
	if err != nil {
		return 0, fmt.Errorf("get lane: %w", err)
	}
	return laneID, nil
}

// Save records a lane for ownerID with insert-if-absent semantics. When a
// concurrent writer already recorded a lane, that stored lane is returned so
// the owner never ends up with two.
func (r *Repository) Save(ctx context.Context, ownerID, laneID int64) (int64, error) {
	var stored int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO lanes (owner_id, lane_id) VALUES ($1, $2)
		 ON CONFLICT (owner_id) DO NOTHING
		 RETURNING lane_id`,
		ownerID, laneID,
	).Scan(&stored)
	if errors.Is(err, pgx.ErrNoRows) {
		// Lost the race: another writer inserted first.
		return r.Get(ctx, ownerID)
	}
	if err != nil {
		return 0, fmt.Errorf("save lane: %w", err)
	}
	return stored, nil
}
