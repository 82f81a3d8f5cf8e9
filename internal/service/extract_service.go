package service

import (
	"fmt"
	"strings"

	"two-doc-checker/internal/models"

	"go.uber.org/zap"
)

// TextExtractor turns an uploaded file into plain text.
type TextExtractor interface {
	Extract(filename string, data []byte) models.ExtractionOutcome
}

type ExtractService struct {
	pdf    pdfTextEngine
	logger *zap.Logger
}

// NewExtractService creates an extractor using the named PDF engine
// ("fitz" or "native").
func NewExtractService(pdfEngine string, logger *zap.Logger) *ExtractService {
	return &ExtractService{
		pdf:    newPDFEngine(pdfEngine),
		logger: logger,
	}
}

// Extract dispatches on the filename suffix. It never returns an error:
// a parser failure (including a panic inside a parser) is reported as
// ExtractionFailed with empty text.
func (s *ExtractService) Extract(filename string, data []byte) (outcome models.ExtractionOutcome) {
	doc := models.UploadedDocument{Filename: filename, Data: data}
	ext := doc.Ext()

	defer func() {
		if r := recover(); r != nil {
			outcome = models.ExtractionOutcome{
				Status: models.ExtractionFailed,
				Err:    fmt.Errorf("parser panic on %s: %v", ext, r),
			}
		}
		s.logger.Debug("Text extraction finished",
			zap.String("file", filename),
			zap.String("status", string(outcome.Status)),
			zap.Int("text_length", len(outcome.Text)),
		)
	}()

	var (
		text string
		err  error
	)
	switch ext {
	case ".txt":
		text = sanitizeUTF8(string(data))
	case ".docx":
		var paragraphs []string
		paragraphs, err = docxParagraphs(data)
		text = strings.Join(paragraphs, "\n")
	case ".pdf":
		var pages []string
		pages, err = s.pdf.PageTexts(data)
		text = joinPages(pages)
	default:
		return models.ExtractionOutcome{Status: models.ExtractionUnsupported}
	}

	if err != nil {
		return models.ExtractionOutcome{Status: models.ExtractionFailed, Err: err}
	}
	if isBlank(text) {
		return models.ExtractionOutcome{Text: text, Status: models.ExtractionEmpty}
	}
	return models.ExtractionOutcome{Text: text, Status: models.ExtractionOK}
}
