package workflow

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"coverletter-backend/internal/uploads"
)

type memStore struct {
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Put(ctx context.Context, storageKey, contentType string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.objects[storageKey] = data
	return int64(len(data)), nil
}

func (m *memStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	data, ok := m.objects[storageKey]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStore) Delete(ctx context.Context, storageKey string) error {
	delete(m.objects, storageKey)
	return nil
}

func (m *memStore) PublicURL(storageKey string) string {
	return "http://store.local/" + storageKey
}

func newTestReconciler(store *memStore) *Reconciler {
	svc := &uploads.Service{Objects: store, Repo: uploads.NewMemoryRepo()}
	return NewReconciler(svc)
}

func TestReconcileMissingFileID(t *testing.T) {
	r := newTestReconciler(newMemStore())
	_, err := r.Reconcile(context.Background(), CallbackEvent{Status: "success", PDFURL: "http://x/pdf"})
	if !errors.Is(err, ErrMissingFileID) {
		t.Fatalf("expected ErrMissingFileID, got %v", err)
	}
}

func TestReconcileFailedWorkflow(t *testing.T) {
	store := newMemStore()
	r := newTestReconciler(store)

	result, err := r.Reconcile(context.Background(), CallbackEvent{
		FileID: "upload-1",
		Status: "error",
		Error:  "ocr_failed",
	})
	if err != nil {
		t.Fatalf("a failed workflow report is not a transport error, got %v", err)
	}
	if result.Success {
		t.Fatal("expected Success=false")
	}
	if result.Message != "n8n workflow failed" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if result.Error != "ocr_failed" {
		t.Fatalf("expected engine error preserved, got %q", result.Error)
	}
	if len(store.objects) != 0 {
		t.Fatalf("no artifact may be stored on failure, got %d objects", len(store.objects))
	}
}

func TestReconcileSuccessWithoutPDFURL(t *testing.T) {
	store := newMemStore()
	r := newTestReconciler(store)

	result, err := r.Reconcile(context.Background(), CallbackEvent{
		FileID: "upload-1",
		Status: "success",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success {
		t.Fatal("success without pdfUrl must be treated as failure")
	}
	if len(store.objects) != 0 {
		t.Fatalf("no artifact may be stored without a pdfUrl, got %d objects", len(store.objects))
	}
}

func TestReconcileStoresArtifact(t *testing.T) {
	pdfBytes := []byte("%PDF-1.4 rendered letter")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdfBytes)
	}))
	t.Cleanup(srv.Close)

	store := newMemStore()
	r := newTestReconciler(store)

	event := CallbackEvent{
		FileID:          "upload-1",
		Status:          "success",
		PDFURL:          srv.URL + "/rendered.pdf",
		CoverLetterText: "Dear Hiring Manager,",
	}

	result, err := r.Reconcile(context.Background(), event)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Message != "PDF processed and stored successfully" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if result.PDFPath != "generated-pdfs/upload-1.pdf" {
		t.Fatalf("unexpected artifact path: %q", result.PDFPath)
	}
	if result.PDFURL != "http://store.local/generated-pdfs/upload-1.pdf" {
		t.Fatalf("unexpected artifact URL: %q", result.PDFURL)
	}
	if result.CoverLetterText != "Dear Hiring Manager," {
		t.Fatalf("letter text not passed through: %q", result.CoverLetterText)
	}
	if !bytes.Equal(store.objects[result.PDFPath], pdfBytes) {
		t.Fatal("stored artifact does not match downloaded bytes")
	}

	// A repeated callback overwrites the same key.
	again, err := r.Reconcile(context.Background(), event)
	if err != nil {
		t.Fatalf("repeat Reconcile: %v", err)
	}
	if again.PDFPath != result.PDFPath {
		t.Fatalf("repeat callback must land on the same key: %q vs %q", again.PDFPath, result.PDFPath)
	}
	if len(store.objects) != 1 {
		t.Fatalf("expected a single artifact, got %d", len(store.objects))
	}
}

func TestReconcileFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	store := newMemStore()
	r := newTestReconciler(store)

	_, err := r.Reconcile(context.Background(), CallbackEvent{
		FileID: "upload-1",
		Status: "success",
		PDFURL: srv.URL + "/missing.pdf",
	})
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if len(store.objects) != 0 {
		t.Fatalf("no artifact may be stored on fetch failure, got %d objects", len(store.objects))
	}
}
