package uploads

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo for dev and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]UploadRecord // id -> record
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]UploadRecord),
	}
}

// Create stores a new record.
func (r *MemoryRepo) Create(ctx context.Context, rec UploadRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[rec.ID] = rec
	return nil
}

// GetByID returns a record by identifier.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (UploadRecord, error) {
	if err := ctx.Err(); err != nil {
		return UploadRecord{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.data[id]
	if !ok {
		return UploadRecord{}, ErrNotFound
	}
	return rec, nil
}

// AttachLetter updates the record matching both id and email.
func (r *MemoryRepo) AttachLetter(ctx context.Context, id, email, letter string, generatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.data[id]
	if !ok || rec.Email != email {
		return ErrNotFound
	}
	rec.CoverLetter = letter
	rec.GeneratedAt = &generatedAt
	r.data[id] = rec
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
