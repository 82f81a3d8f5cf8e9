package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"two-doc-checker/internal/models"
	"two-doc-checker/pkg/config"

	"go.uber.org/zap"
)

// OCRProvider reads text out of a scanned PDF.
type OCRProvider interface {
	OCR(ctx context.Context, pdf []byte) models.OCRResult
}

// OCRService calls a hosted OCR endpoint that accepts a multipart PDF upload
// and answers with {"text": "..."}.
type OCRService struct {
	apiKey     string
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewOCRService(cfg *config.OCRConfig, logger *zap.Logger) *OCRService {
	return &OCRService{
		apiKey:     cfg.APIKey,
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Enabled reports whether a credential is configured.
func (s *OCRService) Enabled() bool {
	return s.apiKey != ""
}

// OCR never returns an error to the caller; failures come back as
// OCRFailed with empty text so the pipeline can carry on without OCR.
func (s *OCRService) OCR(ctx context.Context, pdf []byte) models.OCRResult {
	if s.apiKey == "" || len(pdf) == 0 {
		return models.OCRResult{Status: models.OCRSkipped}
	}

	text, err := s.recognize(ctx, pdf)
	if err != nil {
		s.logger.Warn("OCR request failed", zap.String("url", s.url), zap.Error(err))
		return models.OCRResult{Status: models.OCRFailed, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return models.OCRResult{Text: text, Status: models.OCREmpty}
	}

	s.logger.Info("OCR extraction completed", zap.Int("text_length", len(text)))
	return models.OCRResult{Text: text, Status: models.OCRUsed}
}

func (s *OCRService) recognize(ctx context.Context, pdf []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreatePart(map[string][]string{
		"Content-Type":        {"application/pdf"},
		"Content-Disposition": {`form-data; name="file"; filename="document.pdf"`},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(pdf); err != nil {
		return "", fmt.Errorf("failed to write file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("OCR failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var ocrResp struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ocrResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return ocrResp.Text, nil
}
