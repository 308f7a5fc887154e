package uploads_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/bootstrap"
	"coverletter-backend/internal/shared/config"
)

func buildTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:3000"},
		LocalStoreDir:   t.TempDir(),
		PublicBaseURL:   "http://localhost:8080",
		Env:             "dev",
		ObjectStoreType: "local",
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func multipartUpload(t *testing.T, fields map[string]string, fileName, contentType string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if fileName != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
		if contentType != "" {
			header.Set("Content-Type", contentType)
		}
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(fileContent); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	for key, val := range fields {
		if err := writer.WriteField(key, val); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadStoresFileAndRecord(t *testing.T) {
	app := buildTestApp(t)

	body, contentType := multipartUpload(t, map[string]string{
		"email":  "jane@example.com",
		"jobUrl": "https://jobs.example.com/123",
	}, "my cv.pdf", "application/pdf", []byte("%PDF-1.4 test"))

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var got struct {
		Success  bool   `json:"success"`
		UploadID string `json:"uploadId"`
		FilePath string `json:"filePath"`
		FileName string `json:"fileName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !got.Success {
		t.Fatal("expected success")
	}
	if got.UploadID == "" {
		t.Fatal("expected uploadId")
	}
	if !strings.HasPrefix(got.FilePath, "cv-uploads/") {
		t.Fatalf("expected filePath under cv-uploads/, got %q", got.FilePath)
	}
	if got.FileName != "my cv.pdf" {
		t.Fatalf("expected original fileName, got %q", got.FileName)
	}

	// The stored object is served back under /files.
	reqGet := httptest.NewRequest(http.MethodGet, "/files/"+got.FilePath, nil)
	respGet := httptest.NewRecorder()
	app.Router.ServeHTTP(respGet, reqGet)
	if respGet.Code != http.StatusOK {
		t.Fatalf("expected stored file to be served, got %d", respGet.Code)
	}
	data, _ := io.ReadAll(respGet.Body)
	if string(data) != "%PDF-1.4 test" {
		t.Fatalf("served content mismatch: %q", data)
	}
}

func TestUploadValidation(t *testing.T) {
	app := buildTestApp(t)

	tests := []struct {
		name        string
		fields      map[string]string
		fileName    string
		contentType string
		content     []byte
		wantError   string
	}{
		{
			name:      "missing file",
			fields:    map[string]string{"email": "jane@example.com", "jobUrl": "https://jobs.example.com/1"},
			wantError: "File, email, and job URL are required",
		},
		{
			name:        "missing email",
			fields:      map[string]string{"jobUrl": "https://jobs.example.com/1"},
			fileName:    "cv.pdf",
			contentType: "application/pdf",
			content:     []byte("pdf"),
			wantError:   "File, email, and job URL are required",
		},
		{
			name:        "missing job url",
			fields:      map[string]string{"email": "jane@example.com"},
			fileName:    "cv.pdf",
			contentType: "application/pdf",
			content:     []byte("pdf"),
			wantError:   "File, email, and job URL are required",
		},
		{
			name:        "invalid email",
			fields:      map[string]string{"email": "not-an-email", "jobUrl": "https://jobs.example.com/1"},
			fileName:    "cv.pdf",
			contentType: "application/pdf",
			content:     []byte("pdf"),
			wantError:   "Please enter a valid email address",
		},
		{
			name:        "unsupported type",
			fields:      map[string]string{"email": "jane@example.com", "jobUrl": "https://jobs.example.com/1"},
			fileName:    "cv.txt",
			contentType: "text/plain",
			content:     []byte("plain text"),
			wantError:   "Unsupported file type. Please upload PDF or image files.",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartUpload(t, tt.fields, tt.fileName, tt.contentType, tt.content)
			req := httptest.NewRequest(http.MethodPost, "/upload", body)
			req.Header.Set("Content-Type", contentType)
			resp := httptest.NewRecorder()
			app.Router.ServeHTTP(resp, req)

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", resp.Code, resp.Body.String())
			}
			var got struct {
				Error string `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if got.Error != tt.wantError {
				t.Fatalf("expected error %q, got %q", tt.wantError, got.Error)
			}
		})
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	app := buildTestApp(t)

	oversized := bytes.Repeat([]byte("a"), 10<<20+1)
	body, contentType := multipartUpload(t, map[string]string{
		"email":  "jane@example.com",
		"jobUrl": "https://jobs.example.com/123",
	}, "big.pdf", "application/pdf", oversized)

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", resp.Code, resp.Body.String())
	}
	var got struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Error != "File size too large. Maximum 10MB allowed." {
		t.Fatalf("unexpected error: %q", got.Error)
	}
}
