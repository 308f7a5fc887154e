package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

const mimePDF = "application/pdf"

var (
	// ErrUnsupportedMediaType is returned for anything that is neither a PDF
	// nor an image.
	ErrUnsupportedMediaType = errors.New("unsupported file type")
	// ErrEmptyExtraction is returned when extraction produces no usable text.
	ErrEmptyExtraction = errors.New("no text could be extracted from the file")
)

// OCR converts image bytes into plain text. Implementations may call out over
// the network and own their timeout policy.
type OCR interface {
	Recognize(ctx context.Context, data []byte, mimeType string, fileName string) (string, error)
}

// Extractor pulls plain text from CV files. PDFs are parsed in process via
// github.com/ledongthuc/pdf; images are delegated to the OCR collaborator.
type Extractor struct {
	OCR OCR
}

// New constructs an Extractor. A nil ocr falls back to the placeholder.
func New(ocr OCR) *Extractor {
	if ocr == nil {
		ocr = PlaceholderOCR{}
	}
	return &Extractor{OCR: ocr}
}

// Extract returns the trimmed text content of the file. The declared media
// type decides the path: PDF parsing, OCR for image/*, anything else is
// rejected before touching the bytes. Size limits are enforced upstream.
func (e *Extractor) Extract(ctx context.Context, data []byte, declaredType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch {
	case isPDF(declaredType):
		text, err = extractPDF(data)
	case isImage(declaredType):
		text, err = e.OCR.Recognize(ctx, data, declaredType, fileName)
	default:
		return "", ErrUnsupportedMediaType
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", declaredType, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyExtraction
	}
	return text, nil
}

func isPDF(mimeType string) bool {
	return normalizeMimeType(mimeType) == mimePDF
}

func isImage(mimeType string) bool {
	return strings.HasPrefix(normalizeMimeType(mimeType), "image/")
}

func normalizeMimeType(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
