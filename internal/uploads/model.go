package uploads

import "time"

// UploadRecord represents one submitted CV upload. The ID doubles as the
// storage key prefix, so two concurrent uploads can never collide.
type UploadRecord struct {
	ID          string
	Email       string
	JobURL      string
	FileName    string
	FilePath    string
	FileSize    int64
	FileType    string
	UploadedAt  time.Time
	CoverLetter string
	GeneratedAt *time.Time
}
