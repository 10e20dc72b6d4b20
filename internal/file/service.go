package file

import (
	"context"
	"errors"
	"fmt"
)

// maxCodeAttempts bounds collision retries. The code space is 62^8, so a
// second attempt is already vanishingly rare.
const maxCodeAttempts = 5

// Store is the persistence surface the service needs. *Repository is the
// production implementation.
type Store interface {
	Insert(ctx context.Context, f *StoredFile) error
	GetByCode(ctx context.Context, code string) (*StoredFile, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]StoredFile, error)
}

// Service contains business logic for the reference store: code generation
// with collision retry on top of the raw persistence operations.
type Service struct {
	store Store
}

// NewService creates a new file Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Put records newly relayed content and returns its short code. Collisions
// with existing codes trigger regeneration; any other persistence failure is
// surfaced and leaves no partial row behind.
func (s *Service) Put(ctx context.Context, handle, fingerprint string, kind MediaKind, displayName string, ownerID int64) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("put file: unknown media kind %q", kind)
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := NewCode()
		if err != nil {
			return "", fmt.Errorf("put file: %w", err)
		}

		err = s.store.Insert(ctx, &StoredFile{
			Code:               code,
			ContentHandle:      handle,
			ContentFingerprint: fingerprint,
			Kind:               kind,
			DisplayName:        displayName,
			OwnerID:            ownerID,
		})
		if errors.Is(err, ErrCodeTaken) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("put file: %w", err)
		}
		return code, nil
	}
	return "", fmt.Errorf("put file: %w after %d attempts", ErrCodeTaken, maxCodeAttempts)
}

// Get resolves a short code. Returns ErrNotFound when the code was never
// issued.
func (s *Service) Get(ctx context.Context, code string) (*StoredFile, error) {
	return s.store.GetByCode(ctx, code)
}

// ListByOwner returns all files owned by ownerID, in store order.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]StoredFile, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// IsNotFound returns true when the error indicates a missing file.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
