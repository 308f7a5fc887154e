package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"coverletter-backend/internal/extract"
	"coverletter-backend/internal/llm"
	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/telemetry"
	"coverletter-backend/internal/uploads"
)

// ErrMissingInput marks generation requests without CV text or job description.
var ErrMissingInput = errors.New("CV text and job description are required")

// Service sequences the synchronous generation pipeline: validate, extract,
// store, generate, then best-effort letter attach. Stages run strictly in
// order and the pipeline is terminal on the first failure.
type Service struct {
	Extractor *extract.Extractor
	LLM       llm.Client
	Uploads   *uploads.Service
}

// Process extracts plain text from an in-memory CV file.
func (s *Service) Process(ctx context.Context, data []byte, declaredType, fileName string) (string, error) {
	return s.Extractor.Extract(ctx, data, declaredType, fileName)
}

// GenerateParams carries one generation request. Email and UploadID are
// optional; when both are present the letter is attached to the stored record.
type GenerateParams struct {
	CVText         string
	JobDescription string
	JobTitle       string
	CompanyName    string
	Email          string
	UploadID       string
}

// Generate invokes the model once and best-effort attaches the result. Attach
// failures are logged and swallowed: the letter was already produced and will
// be returned to the caller regardless.
func (s *Service) Generate(ctx context.Context, params GenerateParams) (string, error) {
	if params.CVText == "" || params.JobDescription == "" {
		return "", ErrMissingInput
	}

	metrics.IncGenerationStarted()
	start := time.Now()

	letter, err := s.LLM.GenerateCoverLetter(ctx, llm.GenerateInput{
		CVText:         params.CVText,
		JobDescription: params.JobDescription,
		JobTitle:       params.JobTitle,
		CompanyName:    params.CompanyName,
	})
	metrics.ObserveGenerationDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncGenerationFailed()
		return "", err
	}
	metrics.IncGenerationCompleted()

	s.attachLetter(ctx, params.UploadID, params.Email, letter)
	return letter, nil
}

// RunInput is the end-to-end pipeline request: one CV file plus job context.
type RunInput struct {
	FileName     string
	DeclaredType string
	Data         []byte
	Email        string
	JobURL       string
	JobTitle     string
	CompanyName  string
}

// RunResult reports the completed pipeline.
type RunResult struct {
	UploadID    string
	FilePath    string
	CoverLetter string
}

// Run executes the full sequence for one request. A generation failure after
// the upload stage leaves the stored record intact; evidence of the upload is
// never rolled back by a later stage.
func (s *Service) Run(ctx context.Context, in RunInput) (RunResult, error) {
	text, err := s.Extractor.Extract(ctx, in.Data, in.DeclaredType, in.FileName)
	if err != nil {
		return RunResult{}, err
	}

	rec, err := s.Uploads.Store(ctx, uploads.StoreInput{
		Email:    in.Email,
		JobURL:   in.JobURL,
		FileName: in.FileName,
		FileType: in.DeclaredType,
		Body:     bytes.NewReader(in.Data),
		Size:     int64(len(in.Data)),
	})
	if err != nil {
		return RunResult{}, fmt.Errorf("store upload: %w", err)
	}

	letter, err := s.Generate(ctx, GenerateParams{
		CVText:         text,
		JobDescription: in.JobURL,
		JobTitle:       in.JobTitle,
		CompanyName:    in.CompanyName,
		Email:          in.Email,
		UploadID:       rec.ID,
	})
	if err != nil {
		return RunResult{UploadID: rec.ID, FilePath: rec.FilePath}, err
	}

	return RunResult{
		UploadID:    rec.ID,
		FilePath:    rec.FilePath,
		CoverLetter: letter,
	}, nil
}

func (s *Service) attachLetter(ctx context.Context, uploadID, email, letter string) {
	if uploadID == "" || email == "" {
		return
	}
	if err := s.Uploads.AttachLetter(ctx, uploadID, email, letter); err != nil {
		telemetry.Error("generate.attach_failed", map[string]any{
			"upload_id": uploadID,
			"error":     err.Error(),
		})
	}
}
