package workflow

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/server/respond"
	"coverletter-backend/internal/shared/telemetry"
	"coverletter-backend/internal/uploads"
)

// Handler wires the workflow trigger and callback endpoints.
type Handler struct {
	Uploads       *uploads.Service
	Trigger       *Trigger
	Reconciler    *Reconciler
	CallbackToken string
}

// NewHandler constructs a Handler. An empty callbackToken disables callback
// authentication.
func NewHandler(uploadSvc *uploads.Service, trigger *Trigger, reconciler *Reconciler, callbackToken string) *Handler {
	return &Handler{
		Uploads:       uploadSvc,
		Trigger:       trigger,
		Reconciler:    reconciler,
		CallbackToken: callbackToken,
	}
}

// RegisterRoutes attaches workflow routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/trigger-workflow", h.triggerWorkflow)
	rg.POST("/workflow-callback", h.callback)
}

func (h *Handler) triggerWorkflow(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, uploads.MaxUploadBytes+1<<20)

	fileHeader, err := c.FormFile("file")
	email := strings.TrimSpace(c.PostForm("email"))
	jobURL := strings.TrimSpace(c.PostForm("jobUrl"))

	if err != nil || email == "" || jobURL == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "File, email, and job URL are required", nil)
		return
	}
	if !uploads.ValidEmail(email) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Please enter a valid email address", nil)
		return
	}
	if fileHeader.Size > uploads.MaxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "File size too large. Maximum 10MB allowed.", nil)
		return
	}

	mediaType := uploads.DeclaredMediaType(fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if !uploads.AllowedMediaType(mediaType) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Unsupported file type. Please upload PDF or image files.", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	rec, err := h.Uploads.Store(c.Request.Context(), uploads.StoreInput{
		Email:    email,
		JobURL:   jobURL,
		FileName: fileHeader.Filename,
		FileType: mediaType,
		Body:     file,
		Size:     fileHeader.Size,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "Failed to upload file to storage", err.Error())
		return
	}
	c.Set("uploadId", rec.ID)
	metrics.IncUploadStored()

	result, err := h.Trigger.Send(c.Request.Context(), TriggerPayload{
		FileID:     rec.ID,
		FileName:   rec.FileName,
		FilePath:   rec.FilePath,
		FileURL:    h.Uploads.PublicURL(rec.FilePath),
		Email:      rec.Email,
		JobURL:     rec.JobURL,
		FileSize:   rec.FileSize,
		FileType:   rec.FileType,
		UploadedAt: rec.UploadedAt,
	})
	if err != nil {
		if errors.Is(err, ErrWebhookNotConfigured) {
			respond.Error(c, http.StatusInternalServerError, "config_error", "Webhook configuration missing", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "webhook_error", "Failed to trigger workflow", err.Error())
		return
	}

	// The upload outcome and the webhook outcome are reported independently;
	// a failed delivery never fails the durable upload.
	body := gin.H{
		"success":          true,
		"fileId":           rec.ID,
		"filePath":         rec.FilePath,
		"fileName":         rec.FileName,
		"webhookTriggered": result.Accepted,
	}
	if result.Accepted {
		if result.Response != nil {
			body["n8nResponse"] = result.Response
		}
	} else {
		body["error"] = result.Detail
	}
	respond.OK(c, body)
}

func (h *Handler) callback(c *gin.Context) {
	if h.CallbackToken != "" {
		token := c.GetHeader("X-Callback-Token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.CallbackToken)) != 1 {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid callback token", nil)
			return
		}
	}

	var event CallbackEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	metrics.IncWorkflowCallback()
	if event.FileID != "" {
		c.Set("uploadId", event.FileID)
	}
	telemetry.Info("workflow.callback_received", map[string]any{
		"file_id": event.FileID,
		"status":  event.Status,
		"has_pdf": event.PDFURL != "",
	})

	result, err := h.Reconciler.Reconcile(c.Request.Context(), event)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFileID):
			respond.Error(c, http.StatusBadRequest, "validation_error", "fileId is required", nil)
		case errors.Is(err, ErrFetchFailed):
			respond.Error(c, http.StatusInternalServerError, "fetch_error", "Failed to process PDF from n8n", err.Error())
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to process PDF from n8n", err.Error())
		}
		return
	}

	respond.OK(c, result)
}
