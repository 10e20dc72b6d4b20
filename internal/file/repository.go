package file

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists stored files in PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert writes a new stored-file row. Returns ErrCodeTaken when the code
// collides with an existing row; the unique constraint on the primary key
// makes concurrent inserts of the same code safe.
func (r *Repository) Insert(ctx context.Context, f *StoredFile) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO files (code, content_handle, content_fingerprint, media_kind, display_name, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		f.Code, f.ContentHandle, f.ContentFingerprint, string(f.Kind), f.DisplayName, f.OwnerID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrCodeTaken
		}
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

// GetByCode fetches a stored file by its short code.
func (r *Repository) GetByCode(ctx context.Context, code string) (*StoredFile, error) {
	f := &StoredFile{}
	var kind string
	err := r.db.QueryRow(ctx,
		`SELECT code, content_handle, content_fingerprint, media_kind, display_name, owner_id
		 FROM files WHERE code = $1`,
		code,
	).Scan(&f.Code, &f.ContentHandle, &f.ContentFingerprint, &kind, &f.DisplayName, &f.OwnerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get file by code: %w", err)
	}
	if f.Kind, err = ParseMediaKind(kind); err != nil {
		return nil, fmt.Errorf("get file by code: %w", err)
	}
	return f, nil
}

// ListByOwner fetches every file owned by ownerID. Order is unspecified.
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64) ([]StoredFile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT code, content_handle, content_fingerprint, media_kind, display_name, owner_id
		 FROM files WHERE owner_id = $1`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list files by owner: %w", err)
	}
	defer rows.Close()

	var files []StoredFile
	for rows.Next() {
		var f StoredFile
		var kind string
		if err := rows.Scan(&f.Code, &f.ContentHandle, &f.ContentFingerprint, &kind, &f.DisplayName, &f.OwnerID); err != nil {
			return nil, fmt.Errorf("scan file row: %w", err)
		}
		if f.Kind, err = ParseMediaKind(kind); err != nil {
			return nil, fmt.Errorf("scan file row: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list files by owner: %w", err)
	}
	return files, nil
}

// isUniqueViolation checks whether an error is a PostgreSQL unique_violation (code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
