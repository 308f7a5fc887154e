package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeOCR struct {
	text string
	err  error
}

func (f fakeOCR) Recognize(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	return f.text, f.err
}

func TestExtractDispatch(t *testing.T) {
	tests := []struct {
		name         string
		declaredType string
		ocr          OCR
		wantErr      error
		wantText     string
	}{
		{
			name:         "image routed to ocr",
			declaredType: "image/png",
			ocr:          fakeOCR{text: "  extracted cv text  "},
			wantText:     "extracted cv text",
		},
		{
			name:         "image jpeg with charset suffix",
			declaredType: "image/jpeg; charset=binary",
			ocr:          fakeOCR{text: "jpeg text"},
			wantText:     "jpeg text",
		},
		{
			name:         "whitespace-only ocr result rejected",
			declaredType: "image/png",
			ocr:          fakeOCR{text: "   \n\t  "},
			wantErr:      ErrEmptyExtraction,
		},
		{
			name:         "text file rejected",
			declaredType: "text/plain",
			ocr:          fakeOCR{text: "never called"},
			wantErr:      ErrUnsupportedMediaType,
		},
		{
			name:         "docx rejected",
			declaredType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			ocr:          fakeOCR{text: "never called"},
			wantErr:      ErrUnsupportedMediaType,
		},
		{
			name:         "empty type rejected",
			declaredType: "",
			ocr:          fakeOCR{text: "never called"},
			wantErr:      ErrUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.ocr)
			text, err := e.Extract(context.Background(), []byte("payload"), tt.declaredType, "cv.bin")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if text != tt.wantText {
				t.Fatalf("expected text %q, got %q", tt.wantText, text)
			}
		})
	}
}

func TestExtractUnsupportedSkipsExtraction(t *testing.T) {
	e := New(fakeOCR{err: errors.New("ocr should not run")})
	_, err := e.Extract(context.Background(), []byte("data"), "application/zip", "cv.zip")
	if !errors.Is(err, ErrUnsupportedMediaType) {
		t.Fatalf("expected ErrUnsupportedMediaType, got %v", err)
	}
}

func TestPlaceholderOCRNamesFile(t *testing.T) {
	text, err := PlaceholderOCR{}.Recognize(context.Background(), []byte("img"), "image/png", "cv.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "cv.png") {
		t.Fatalf("expected placeholder text to name the file, got %q", text)
	}
}

func TestNormalizeMimeType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"application/pdf", "application/pdf"},
		{"APPLICATION/PDF", "application/pdf"},
		{"application/pdf; charset=binary", "application/pdf"},
		{" image/PNG ", "image/png"},
	}
	for _, tt := range tests {
		if got := normalizeMimeType(tt.in); got != tt.want {
			t.Fatalf("normalizeMimeType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
