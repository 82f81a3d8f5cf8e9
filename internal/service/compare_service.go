package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"two-doc-checker/internal/dto"
	"two-doc-checker/internal/models"
	"two-doc-checker/pkg/config"

	"go.uber.org/zap"
)

var (
	ErrFileTooLarge       = errors.New("file too large")
	ErrUnreadableDocument = errors.New("couldn't read document text")
	// ErrModelUnavailable wraps every failure of a model call.
	ErrModelUnavailable = errors.New("language model call failed")
)

const unexpectedFormatReason = "Unexpected format"

// JSONAsker returns a decoded JSON reply for a system+user prompt pair.
type JSONAsker interface {
	AskJSON(ctx context.Context, system, user string) (any, error)
}

type CompareService struct {
	extractor TextExtractor
	ocr       OCRProvider
	llm       JSONAsker
	validator *ReplyValidator
	limits    config.LimitsConfig
	logger    *zap.Logger
}

// NewCompareService wires the pipeline. validator may be nil.
func NewCompareService(
	extractor TextExtractor,
	ocr OCRProvider,
	llm JSONAsker,
	validator *ReplyValidator,
	limits config.LimitsConfig,
	logger *zap.Logger,
) *CompareService {
	return &CompareService{
		extractor: extractor,
		ocr:       ocr,
		llm:       llm,
		validator: validator,
		limits:    limits,
		logger:    logger,
	}
}

// MaxUploadBytes is the per-document size limit.
func (s *CompareService) MaxUploadBytes() int64 {
	return s.limits.MaxUploadBytes
}

// Compare checks an invoice against its governing contract or PO. Findings
// are requested only when the documents are related or force is set.
func (s *CompareService) Compare(ctx context.Context, invoice, governing models.UploadedDocument, force bool) (*dto.ComparisonResponse, error) {
	for _, doc := range []models.UploadedDocument{invoice, governing} {
		if int64(len(doc.Data)) > s.limits.MaxUploadBytes {
			return nil, fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, doc.Filename, len(doc.Data))
		}
	}

	inv := s.readDocument(ctx, invoice)
	gov := s.readDocument(ctx, governing)
	if isBlank(inv.Text) || isBlank(gov.Text) {
		return nil, ErrUnreadableDocument
	}

	inv.Text, inv.Truncated = capText(inv.Text, s.limits.MaxChars)
	gov.Text, gov.Truncated = capText(gov.Text, s.limits.MaxChars)

	relReply, err := s.llm.AskJSON(ctx, relatednessSystemPrompt, relatednessUserPrompt(inv.Text, gov.Text))
	if err != nil {
		return nil, fmt.Errorf("%w: relatedness: %w", ErrModelUnavailable, err)
	}
	relatedness := s.normalizeRelatedness(relReply)

	findings := []dto.Finding{}
	if relatedness.Label == string(models.LabelRelated) || force {
		discReply, err := s.llm.AskJSON(ctx, discrepanciesSystemPrompt, discrepanciesUserPrompt(inv.Text, gov.Text))
		if err != nil {
			return nil, fmt.Errorf("%w: discrepancies: %w", ErrModelUnavailable, err)
		}
		findings = s.normalizeFindings(discReply)
	}

	ocrSource := models.OCRSourceNone
	if inv.OCRSource == models.OCRSourceExternal || gov.OCRSource == models.OCRSourceExternal {
		ocrSource = models.OCRSourceExternal
	}

	s.logger.Info("Comparison completed",
		zap.String("invoice", invoice.Filename),
		zap.String("governing", governing.Filename),
		zap.Float64("score", relatedness.Score),
		zap.String("label", relatedness.Label),
		zap.Bool("forced", force),
		zap.Int("findings", len(findings)),
		zap.String("ocr", string(ocrSource)),
	)

	return &dto.ComparisonResponse{
		Relatedness:      relatedness,
		GoverningDocType: string(inferGoverningType(gov.Text)),
		Findings:         findings,
		Metadata: dto.ComparisonMetadata{
			OCR:       string(ocrSource),
			Truncated: inv.Truncated || gov.Truncated,
		},
	}, nil
}

// readDocument extracts text and falls back to OCR for PDFs without a text layer.
func (s *CompareService) readDocument(ctx context.Context, doc models.UploadedDocument) models.ExtractedText {
	outcome := s.extractor.Extract(doc.Filename, doc.Data)
	if outcome.Status == models.ExtractionFailed {
		s.logger.Warn("Text extraction failed", zap.String("file", doc.Filename), zap.Error(outcome.Err))
	}
	result := models.ExtractedText{Text: outcome.Text, OCRSource: models.OCRSourceNone}

	if doc.IsPDF() && isBlank(result.Text) && s.ocr != nil {
		ocr := s.ocr.OCR(ctx, doc.Data)
		s.logger.Info("OCR fallback",
			zap.String("file", doc.Filename),
			zap.String("status", string(ocr.Status)),
		)
		if ocr.Status == models.OCRUsed && !isBlank(ocr.Text) {
			result.Text = ocr.Text
			result.OCRSource = models.OCRSourceExternal
		}
	}
	return result
}

func (s *CompareService) normalizeRelatedness(reply any) dto.RelatednessResult {
	obj, ok := reply.(map[string]any)
	if !ok {
		s.logger.Warn("Relatedness reply is not an object", zap.String("type", fmt.Sprintf("%T", reply)))
		return dto.RelatednessResult{
			Score:   0,
			Label:   string(models.LabelUnrelated),
			Explain: []string{unexpectedFormatReason},
		}
	}
	if s.validator != nil {
		if err := s.validator.CheckRelatedness(obj); err != nil {
			s.logger.Warn("Relatedness reply failed validation", zap.Error(err))
		}
	}

	score, _ := numberValue(obj["score"])
	score = clamp01(score)

	label := models.RelatednessLabel(strings.TrimSpace(stringValue(obj["label"])))
	if !label.Valid() {
		label = models.LabelForScore(score)
	}

	explain := []string{}
	switch e := obj["explain"].(type) {
	case []any:
		for _, item := range e {
			if str := stringValue(item); str != "" {
				explain = append(explain, str)
			}
		}
	case string:
		if e != "" {
			explain = append(explain, e)
		}
	}

	return dto.RelatednessResult{Score: score, Label: string(label), Explain: explain}
}

func (s *CompareService) normalizeFindings(reply any) []dto.Finding {
	var items []any
	switch r := reply.(type) {
	case []any:
		items = r
	case map[string]any:
		items, _ = r["findings"].([]any)
	default:
		s.logger.Warn("Discrepancies reply has unexpected type", zap.String("type", fmt.Sprintf("%T", reply)))
	}

	findings := make([]dto.Finding, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			s.logger.Warn("Dropping finding that is not an object", zap.Int("index", i))
			continue
		}
		if s.validator != nil {
			if err := s.validator.CheckFinding(obj); err != nil {
				s.logger.Warn("Finding failed validation", zap.Int("index", i), zap.Error(err))
			}
		}
		confidence, _ := numberValue(obj["confidence"])
		findings = append(findings, dto.Finding{
			Code:                stringValue(obj["code"]),
			Type:                stringValue(obj["type"]),
			Severity:            stringValue(obj["severity"]),
			Confidence:          clamp01(confidence),
			Expected:            stringValue(obj["expected"]),
			Actual:              stringValue(obj["actual"]),
			AExcerpt:            clipRunes(stringValue(obj["a_excerpt"]), models.MaxExcerptLen),
			BExcerpt:            clipRunes(stringValue(obj["b_excerpt"]), models.MaxExcerptLen),
			ALocation:           stringValue(obj["a_location"]),
			BLocation:           stringValue(obj["b_location"]),
			SuggestedResolution: stringValue(obj["suggested_resolution"]),
		})
	}
	return findings
}

// stringValue renders a decoded JSON value as text. null becomes "".
func stringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

func numberValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

func clamp01(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
