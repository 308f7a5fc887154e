package workflow

import "time"

// TriggerPayload is the JSON descriptor posted to the automation engine when a
// stored upload is handed off for asynchronous rendering.
type TriggerPayload struct {
	FileID     string    `json:"fileId"`
	FileName   string    `json:"fileName"`
	FilePath   string    `json:"filePath"`
	FileURL    string    `json:"fileUrl"`
	Email      string    `json:"email"`
	JobURL     string    `json:"jobUrl"`
	FileSize   int64     `json:"fileSize"`
	FileType   string    `json:"fileType"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// CallbackEvent is the payload the automation engine posts back once the
// asynchronous work finishes (or fails).
type CallbackEvent struct {
	FileID          string `json:"fileId"`
	PDFURL          string `json:"pdfUrl"`
	CoverLetterText string `json:"coverLetterText"`
	Email           string `json:"email"`
	Status          string `json:"status"`
	Error           string `json:"error"`
}
