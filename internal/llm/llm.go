package llm

import (
	"context"
	"errors"
	"strings"
)

// Client abstracts LLM providers for cover letter generation.
type Client interface {
	GenerateCoverLetter(ctx context.Context, input GenerateInput) (string, error)
}

// GenerateInput captures the inputs needed for one generation call.
type GenerateInput struct {
	CVText         string
	JobDescription string
	JobTitle       string
	CompanyName    string
}

// Normalize fills in the documented defaults for optional fields.
func (in GenerateInput) Normalize() GenerateInput {
	if strings.TrimSpace(in.JobTitle) == "" {
		in.JobTitle = "the position"
	}
	if strings.TrimSpace(in.CompanyName) == "" {
		in.CompanyName = "your company"
	}
	return in
}

var (
	// ErrUpstreamUnavailable covers transport failures and non-2xx answers
	// from the generation service. The call is not retried here; retry policy
	// belongs to the caller.
	ErrUpstreamUnavailable = errors.New("generation service unavailable")
	// ErrEmptyGeneration means the service responded but produced no usable text.
	ErrEmptyGeneration = errors.New("no cover letter generated")
)

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM not configured")

// PlaceholderClient is a stub implementation used when no API key is set.
type PlaceholderClient struct{}

// GenerateCoverLetter returns ErrNotConfigured.
func (PlaceholderClient) GenerateCoverLetter(ctx context.Context, input GenerateInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotConfigured
}
