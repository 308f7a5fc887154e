package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// PlaceholderOCR stands in until a real OCR collaborator is configured. It
// returns canned text so the rest of the pipeline can be exercised end to end.
type PlaceholderOCR struct{}

// Recognize returns placeholder text naming the original file.
func (PlaceholderOCR) Recognize(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	_ = data
	_ = mimeType
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf(`[CV content extracted from image: %s]

This is a placeholder for OCR text extraction. In a real implementation,
this would contain the actual text extracted from the CV image using
OCR technology.`, fileName), nil
}

// HTTPOCR delegates recognition to an external OCR service that accepts a
// multipart file and answers {"text": "..."}.
type HTTPOCR struct {
	Endpoint   string
	HTTPClient *http.Client
}

// NewHTTPOCR constructs an HTTPOCR with a bounded default timeout.
func NewHTTPOCR(endpoint string) *HTTPOCR {
	return &HTTPOCR{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Recognize posts the image to the OCR endpoint and returns the extracted text.
func (o *HTTPOCR) Recognize(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.Endpoint, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := o.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ocr response read: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("ocr service status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("ocr response parse: %w", err)
	}
	return parsed.Text, nil
}

var (
	_ OCR = PlaceholderOCR{}
	_ OCR = (*HTTPOCR)(nil)
)
