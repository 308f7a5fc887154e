package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"coverletter-backend/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient("test-key", "claude-3-haiku-20240307", 1000)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.apiURL = srv.URL
	return c, srv
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient("   ", "", 0); err == nil {
		t.Fatal("expected error for blank API key")
	}
}

func TestGenerateCoverLetterSuccess(t *testing.T) {
	var gotHeaders http.Header
	var gotReq messagesRequest

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "msg_01",
			"model": "claude-3-haiku-20240307",
			"content": []map[string]string{
				{"type": "text", "text": "  Dear Hiring Manager,\n\nI am writing to apply.  "},
			},
			"usage": map[string]int{"input_tokens": 250, "output_tokens": 180},
		})
	})

	letter, err := c.GenerateCoverLetter(context.Background(), llm.GenerateInput{
		CVText:         "cv text",
		JobDescription: "job description",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if letter != "Dear Hiring Manager,\n\nI am writing to apply." {
		t.Fatalf("unexpected letter: %q", letter)
	}

	if got := gotHeaders.Get("x-api-key"); got != "test-key" {
		t.Fatalf("expected x-api-key header, got %q", got)
	}
	if got := gotHeaders.Get("anthropic-version"); got != "2023-06-01" {
		t.Fatalf("expected anthropic-version header, got %q", got)
	}
	if gotReq.Model != "claude-3-haiku-20240307" {
		t.Fatalf("unexpected model: %q", gotReq.Model)
	}
	if gotReq.MaxTokens != 1000 {
		t.Fatalf("unexpected max_tokens: %d", gotReq.MaxTokens)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Fatalf("expected a single user message, got %+v", gotReq.Messages)
	}
}

func TestGenerateCoverLetterUpstreamFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.GenerateCoverLetter(context.Background(), llm.GenerateInput{CVText: "cv", JobDescription: "jd"})
	if !errors.Is(err, llm.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestGenerateCoverLetterAPIError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"type": "overloaded_error", "message": "try again"},
		})
	})

	_, err := c.GenerateCoverLetter(context.Background(), llm.GenerateInput{CVText: "cv", JobDescription: "jd"})
	if !errors.Is(err, llm.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestGenerateCoverLetterEmptyContent(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "msg_02",
			"content": []map[string]string{{"type": "text", "text": "   "}},
		})
	})

	_, err := c.GenerateCoverLetter(context.Background(), llm.GenerateInput{CVText: "cv", JobDescription: "jd"})
	if !errors.Is(err, llm.ErrEmptyGeneration) {
		t.Fatalf("expected ErrEmptyGeneration, got %v", err)
	}
}

func TestGenerateCoverLetterConnectionRefused(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := c.GenerateCoverLetter(context.Background(), llm.GenerateInput{CVText: "cv", JobDescription: "jd"})
	if !errors.Is(err, llm.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}
