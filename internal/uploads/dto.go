package uploads

// UploadResponse is the outward-facing result of a stored upload.
type UploadResponse struct {
	Success  bool   `json:"success"`
	UploadID string `json:"uploadId"`
	FilePath string `json:"filePath"`
	FileName string `json:"fileName"`
}

func toResponse(rec UploadRecord) UploadResponse {
	return UploadResponse{
		Success:  true,
		UploadID: rec.ID,
		FilePath: rec.FilePath,
		FileName: rec.FileName,
	}
}
