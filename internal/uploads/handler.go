package uploads

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/server/respond"
	"coverletter-backend/internal/shared/telemetry"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+1<<20)

	fileHeader, err := c.FormFile("file")
	email := strings.TrimSpace(c.PostForm("email"))
	jobURL := strings.TrimSpace(c.PostForm("jobUrl"))

	if err != nil || email == "" || jobURL == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "File, email, and job URL are required", nil)
		return
	}
	if !ValidEmail(email) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Please enter a valid email address", nil)
		return
	}
	if fileHeader.Size > MaxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "File size too large. Maximum 10MB allowed.", nil)
		return
	}

	mediaType := DeclaredMediaType(fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if !AllowedMediaType(mediaType) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Unsupported file type. Please upload PDF or image files.", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	rec, err := h.Svc.Store(c.Request.Context(), StoreInput{
		Email:    email,
		JobURL:   jobURL,
		FileName: fileHeader.Filename,
		FileType: mediaType,
		Body:     file,
		Size:     fileHeader.Size,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "File, email, and job URL are required", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "storage_error", "Failed to save upload record", err.Error())
		return
	}

	c.Set("uploadId", rec.ID)
	metrics.IncUploadStored()
	telemetry.Info("upload.stored", map[string]any{
		"upload_id": rec.ID,
		"file_name": rec.FileName,
		"file_size": rec.FileSize,
		"file_type": rec.FileType,
	})

	respond.OK(c, toResponse(rec))
}
