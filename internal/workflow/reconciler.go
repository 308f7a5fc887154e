package workflow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"coverletter-backend/internal/shared/telemetry"
	"coverletter-backend/internal/uploads"
)

var (
	// ErrMissingFileID marks callback events without the required identifier.
	ErrMissingFileID = errors.New("fileId is required")
	// ErrFetchFailed means the artifact at the callback's pdfUrl could not be
	// downloaded.
	ErrFetchFailed = errors.New("failed to download PDF")
)

// ReconcileResult reports the outcome of one callback. On a failed workflow
// the engine's own error detail is preserved for diagnostics.
type ReconcileResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message,omitempty"`
	PDFPath         string `json:"pdfPath,omitempty"`
	PDFURL          string `json:"pdfUrl,omitempty"`
	CoverLetterText string `json:"coverLetterText,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Reconciler ingests asynchronous workflow results: it downloads the rendered
// artifact and re-homes it in the upload store under the file's identity.
// Artifact writes are overwrites, so a repeated callback is harmless.
type Reconciler struct {
	Uploads    *uploads.Service
	HTTPClient *http.Client
}

// NewReconciler constructs a Reconciler with a bounded fetch timeout.
func NewReconciler(uploadSvc *uploads.Service) *Reconciler {
	return &Reconciler{
		Uploads:    uploadSvc,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Reconcile consumes one callback event.
func (r *Reconciler) Reconcile(ctx context.Context, event CallbackEvent) (ReconcileResult, error) {
	if strings.TrimSpace(event.FileID) == "" {
		return ReconcileResult{}, ErrMissingFileID
	}

	if event.Status != "success" || strings.TrimSpace(event.PDFURL) == "" {
		telemetry.Error("workflow.callback_failed", map[string]any{
			"file_id": event.FileID,
			"status":  event.Status,
			"error":   event.Error,
		})
		return ReconcileResult{
			Success: false,
			Message: "n8n workflow failed",
			Error:   event.Error,
		}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, event.PDFURL, nil)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ReconcileResult{}, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	pdfPath := path.Join(uploads.ArtifactPrefix, event.FileID+".pdf")
	publicURL, err := r.Uploads.PutArtifact(ctx, pdfPath, "application/pdf", resp.Body)
	if err != nil {
		return ReconcileResult{}, err
	}

	telemetry.Info("workflow.artifact_stored", map[string]any{
		"file_id":  event.FileID,
		"pdf_path": pdfPath,
	})

	return ReconcileResult{
		Success:         true,
		Message:         "PDF processed and stored successfully",
		PDFPath:         pdfPath,
		PDFURL:          publicURL,
		CoverLetterText: event.CoverLetterText,
	}, nil
}
