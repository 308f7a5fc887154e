package uploads

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"coverletter-backend/internal/shared/storage/object"
	"coverletter-backend/internal/shared/telemetry"
	"coverletter-backend/internal/shared/util"
)

// UploadPrefix is the storage namespace for original CV files.
const UploadPrefix = "cv-uploads"

// ArtifactPrefix is the storage namespace for generated artifacts.
const ArtifactPrefix = "generated-pdfs"

// Service contains business logic for upload records.
type Service struct {
	Objects object.ObjectStore
	Repo    Repo
}

// StoreInput carries everything needed to persist one upload.
type StoreInput struct {
	Email    string
	JobURL   string
	FileName string
	FileType string
	Body     io.Reader
	Size     int64
}

// Store writes the binary object under a fresh identifier, then inserts the
// metadata record. The two writes are treated as a unit: when the insert fails
// the stored object is rolled back so no orphaned file survives.
func (s *Service) Store(ctx context.Context, in StoreInput) (UploadRecord, error) {
	if in.FileName == "" {
		return UploadRecord{}, ErrInvalidInput
	}
	if _, err := util.SanitizeFileName(in.FileName); err != nil {
		return UploadRecord{}, ErrInvalidInput
	}

	id := uuid.NewString()
	key := path.Join(UploadPrefix, id+"."+util.FileExtension(in.FileName))

	rec := UploadRecord{
		ID:         id,
		Email:      in.Email,
		JobURL:     in.JobURL,
		FileName:   in.FileName,
		FilePath:   key,
		FileType:   in.FileType,
		UploadedAt: time.Now().UTC(),
	}

	size, err := putThenRecord(ctx, s.Objects, key, in.FileType, in.Body, func(size int64) error {
		rec.FileSize = size
		return s.Repo.Create(ctx, rec)
	})
	if err != nil {
		return UploadRecord{}, err
	}
	rec.FileSize = size

	return rec, nil
}

// AttachLetter stores the generated letter on an existing record. The update
// is scoped by id and submitter email.
func (s *Service) AttachLetter(ctx context.Context, id, email, letter string) error {
	if id == "" || email == "" || letter == "" {
		return ErrInvalidInput
	}
	return s.Repo.AttachLetter(ctx, id, email, letter, time.Now().UTC())
}

// PutArtifact writes a generated artifact at a fixed key, overwriting any
// previous version, and returns its public URL.
func (s *Service) PutArtifact(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	if _, err := s.Objects.Put(ctx, key, contentType, r); err != nil {
		return "", fmt.Errorf("put artifact: %w", err)
	}
	return s.Objects.PublicURL(key), nil
}

// PublicURL exposes the object store's URL mapping.
func (s *Service) PublicURL(key string) string {
	return s.Objects.PublicURL(key)
}

// GetByID returns the persisted record for an identifier.
func (s *Service) GetByID(ctx context.Context, id string) (UploadRecord, error) {
	if id == "" {
		return UploadRecord{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// putThenRecord is the two-phase commit helper: reserve the object, commit the
// record, roll the object back when the record write fails. The rollback keeps
// the invariant that a stored object without a record cannot outlive the
// request that created it.
func putThenRecord(ctx context.Context, store object.ObjectStore, key, contentType string, body io.Reader, record func(size int64) error) (int64, error) {
	size, err := store.Put(ctx, key, contentType, body)
	if err != nil {
		return 0, fmt.Errorf("store upload object: %w", err)
	}

	if err := record(size); err != nil {
		if delErr := store.Delete(ctx, key); delErr != nil {
			telemetry.Error("upload.rollback_failed", map[string]any{
				"storage_key": key,
				"error":       delErr.Error(),
			})
		}
		return 0, fmt.Errorf("save upload record: %w", err)
	}
	return size, nil
}
