package uploads

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new upload record.
func (r *PGRepo) Create(ctx context.Context, rec UploadRecord) error {
	const query = `
INSERT INTO cv_uploads (
    id,
    email,
    job_url,
    file_name,
    file_path,
    file_size,
    file_type,
    uploaded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.Email,
		rec.JobURL,
		rec.FileName,
		rec.FilePath,
		rec.FileSize,
		rec.FileType,
		rec.UploadedAt,
	)
	return err
}

// GetByID fetches an upload record by identifier.
func (r *PGRepo) GetByID(ctx context.Context, id string) (UploadRecord, error) {
	const query = `
SELECT id, email, job_url, file_name, file_path, file_size, file_type, uploaded_at, cover_letter, generated_at
FROM cv_uploads
WHERE id = $1
LIMIT 1`
	var rec UploadRecord
	var coverLetter sql.NullString
	var generatedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.Email,
		&rec.JobURL,
		&rec.FileName,
		&rec.FilePath,
		&rec.FileSize,
		&rec.FileType,
		&rec.UploadedAt,
		&coverLetter,
		&generatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UploadRecord{}, ErrNotFound
		}
		return UploadRecord{}, err
	}
	if coverLetter.Valid {
		rec.CoverLetter = coverLetter.String
	}
	if generatedAt.Valid {
		rec.GeneratedAt = &generatedAt.Time
	}
	return rec, nil
}

// AttachLetter stores the generated letter on the record. The update is scoped
// by id AND email so one submitter can never overwrite another's record.
func (r *PGRepo) AttachLetter(ctx context.Context, id, email, letter string, generatedAt time.Time) error {
	const query = `
UPDATE cv_uploads
SET cover_letter = $1, generated_at = $2
WHERE id = $3 AND email = $4`
	res, err := r.DB.ExecContext(ctx, query, letter, generatedAt, id, email)
	if err != nil {
		return err
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
