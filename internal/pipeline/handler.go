package pipeline

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/extract"
	"coverletter-backend/internal/llm"
	"coverletter-backend/internal/shared/server/respond"
	"coverletter-backend/internal/uploads"
)

// Handler wires the pipeline endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches pipeline routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/process", h.process)
	rg.POST("/generate", h.generate)
	rg.POST("/cover-letter", h.coverLetter)
}

func (h *Handler) process(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, uploads.MaxUploadBytes+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "No file provided", nil)
		return
	}
	if fileHeader.Size > uploads.MaxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "File size too large. Maximum 10MB allowed.", nil)
		return
	}

	data, mediaType, err := readMultipartFile(fileHeader)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	text, err := h.Svc.Process(c.Request.Context(), data, mediaType, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedMediaType):
			respond.Error(c, http.StatusBadRequest, "unsupported_media_type", "Unsupported file type. Please upload PDF or image files.", nil)
		case errors.Is(err, extract.ErrEmptyExtraction):
			respond.Error(c, http.StatusBadRequest, "empty_extraction", "No text could be extracted from the file", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "extraction_error", "Failed to process CV file", err.Error())
		}
		return
	}

	respond.OK(c, gin.H{
		"success":  true,
		"text":     text,
		"fileName": fileHeader.Filename,
		"fileSize": fileHeader.Size,
	})
}

type generateRequest struct {
	CVText         string `json:"cvText"`
	JobDescription string `json:"jobDescription"`
	JobTitle       string `json:"jobTitle"`
	CompanyName    string `json:"companyName"`
	Email          string `json:"email"`
	UploadID       string `json:"uploadId"`
}

func (h *Handler) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	if req.UploadID != "" {
		c.Set("uploadId", req.UploadID)
	}

	letter, err := h.Svc.Generate(c.Request.Context(), GenerateParams{
		CVText:         strings.TrimSpace(req.CVText),
		JobDescription: strings.TrimSpace(req.JobDescription),
		JobTitle:       strings.TrimSpace(req.JobTitle),
		CompanyName:    strings.TrimSpace(req.CompanyName),
		Email:          strings.TrimSpace(req.Email),
		UploadID:       strings.TrimSpace(req.UploadID),
	})
	if err != nil {
		respondGenerateError(c, err)
		return
	}

	respond.OK(c, gin.H{
		"success":     true,
		"coverLetter": letter,
	})
}

func (h *Handler) coverLetter(c *gin.Context) {
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

	data, mediaType, err := readMultipartFile(fileHeader)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	if !uploads.AllowedMediaType(mediaType) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Unsupported file type. Please upload PDF or image files.", nil)
		return
	}

	result, err := h.Svc.Run(c.Request.Context(), RunInput{
		FileName:     fileHeader.Filename,
		DeclaredType: mediaType,
		Data:         data,
		Email:        email,
		JobURL:       jobURL,
		JobTitle:     strings.TrimSpace(c.PostForm("jobTitle")),
		CompanyName:  strings.TrimSpace(c.PostForm("companyName")),
	})
	if result.UploadID != "" {
		c.Set("uploadId", result.UploadID)
	}
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedMediaType):
			respond.Error(c, http.StatusBadRequest, "unsupported_media_type", "Unsupported file type. Please upload PDF or image files.", nil)
		case errors.Is(err, extract.ErrEmptyExtraction):
			respond.Error(c, http.StatusBadRequest, "empty_extraction", "No text could be extracted from the file", nil)
		default:
			respondGenerateError(c, err)
		}
		return
	}

	respond.OK(c, gin.H{
		"success":     true,
		"uploadId":    result.UploadID,
		"filePath":    result.FilePath,
		"coverLetter": result.CoverLetter,
	})
}

func respondGenerateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMissingInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "CV text and job description are required", nil)
	case errors.Is(err, llm.ErrEmptyGeneration):
		respond.Error(c, http.StatusInternalServerError, "generation_error", "No cover letter generated", nil)
	case errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusInternalServerError, "generation_error", "Generation service is not configured", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "generation_error", "Failed to generate cover letter", err.Error())
	}
}

func readMultipartFile(fileHeader *multipart.FileHeader) ([]byte, string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	mediaType := uploads.DeclaredMediaType(fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	return data, mediaType, nil
}
