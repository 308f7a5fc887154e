package uploads

import (
	"context"
	"time"
)

// Repo defines persistence operations for upload records.
type Repo interface {
	Create(ctx context.Context, rec UploadRecord) error
	GetByID(ctx context.Context, id string) (UploadRecord, error)
	// AttachLetter updates only the row matching both id and email; when no
	// row matches it returns ErrNotFound.
	AttachLetter(ctx context.Context, id, email, letter string, generatedAt time.Time) error
}
