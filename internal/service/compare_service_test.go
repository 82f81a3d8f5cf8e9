package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"two-doc-checker/internal/dto"
	"two-doc-checker/internal/models"
	"two-doc-checker/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeAsker struct {
	relatedness   any
	discrepancies any
	err           error
	prompts       []string
}

func (f *fakeAsker) AskJSON(ctx context.Context, system, user string) (any, error) {
	f.prompts = append(f.prompts, system)
	if f.err != nil {
		return nil, f.err
	}
	if system == relatednessSystemPrompt {
		return f.relatedness, nil
	}
	return f.discrepancies, nil
}

func (f *fakeAsker) calls() int { return len(f.prompts) }

type fakeOCR struct {
	result models.OCRResult
	calls  int
}

func (f *fakeOCR) OCR(ctx context.Context, pdf []byte) models.OCRResult {
	f.calls++
	return f.result
}

type fakeExtractor map[string]models.ExtractionOutcome

func (f fakeExtractor) Extract(filename string, data []byte) models.ExtractionOutcome {
	if out, ok := f[filename]; ok {
		return out
	}
	return models.ExtractionOutcome{Text: string(data), Status: models.ExtractionOK}
}

var testLimits = config.LimitsConfig{MaxUploadBytes: 1024, MaxChars: 120_000}

func newTestCompare(t *testing.T, ext TextExtractor, ocr OCRProvider, llm JSONAsker) *CompareService {
	v, err := NewReplyValidator()
	require.NoError(t, err)
	return NewCompareService(ext, ocr, llm, v, testLimits, zaptest.NewLogger(t))
}

func txt(name, body string) models.UploadedDocument {
	return models.UploadedDocument{Filename: name, Data: []byte(body)}
}

func relatedReply(score float64, label string) map[string]any {
	return map[string]any{"score": score, "label": label, "explain": []any{"PO number matches"}}
}

func TestCompareRelatedRunsDiscrepancies(t *testing.T) {
	llm := &fakeAsker{
		relatedness: relatedReply(0.85, "related"),
		discrepancies: []any{map[string]any{
			"code": "UNIT_RATE_EXCEEDS", "type": "monetary", "severity": "high", "confidence": 0.9,
			"expected": "$120/hr", "actual": "$135/hr",
		}},
	}
	s := newTestCompare(t, fakeExtractor{}, &fakeOCR{}, llm)

	resp, err := s.Compare(context.Background(), txt("inv.txt", "INVOICE PO-4411"), txt("po.txt", "Purchase Order PO-4411"), false)
	require.NoError(t, err)
	assert.Equal(t, 2, llm.calls())
	assert.Equal(t, "related", resp.Relatedness.Label)
	assert.Equal(t, []string{"PO number matches"}, resp.Relatedness.Explain)
	require.Len(t, resp.Findings, 1)
	assert.Equal(t, "UNIT_RATE_EXCEEDS", resp.Findings[0].Code)
	assert.Equal(t, "po", resp.GoverningDocType)
	assert.Equal(t, dto.ComparisonMetadata{OCR: "none", Truncated: false}, resp.Metadata)
}

func TestComparePossiblyRelatedSkipsDiscrepancies(t *testing.T) {
	llm := &fakeAsker{relatedness: relatedReply(0.5, "possibly_related")}
	s := newTestCompare(t, fakeExtractor{}, &fakeOCR{}, llm)

	resp, err := s.Compare(context.Background(), txt("inv.txt", "invoice"), txt("c.txt", "Master services agreement"), false)
	require.NoError(t, err)
	assert.Equal(t, 1, llm.calls())
	assert.NotNil(t, resp.Findings)
	assert.Empty(t, resp.Findings)
	assert.Equal(t, "contract", resp.GoverningDocType)
}

func TestCompareForceUsesFindingsField(t *testing.T) {
	llm := &fakeAsker{
		relatedness: relatedReply(0.1, "unrelated"),
		discrepancies: map[string]any{"findings": []any{
			map[string]any{"code": "VENDOR_MISMATCH", "type": "identity", "severity": "medium"},
			"not an object",
		}},
	}
	s := newTestCompare(t, fakeExtractor{}, &fakeOCR{}, llm)

	resp, err := s.Compare(context.Background(), txt("inv.txt", "invoice"), txt("c.txt", "contract"), true)
	require.NoError(t, err)
	assert.Equal(t, 2, llm.calls())
	require.Len(t, resp.Findings, 1)
	assert.Equal(t, "VENDOR_MISMATCH", resp.Findings[0].Code)
}

func TestCompareForceWithObjectWithoutFindings(t *testing.T) {
	llm := &fakeAsker{relatedness: relatedReply(0.1, "unrelated"), discrepancies: map[string]any{"issues": []any{}}}
	s := newTestCompare(t, fakeExtractor{}, &fakeOCR{}, llm)

	resp, err := s.Compare(context.Background(), txt("inv.txt", "invoice"), txt("c.txt", "contract"), true)
	require.NoError(t, err)
	assert.NotNil(t, resp.Findings)
	assert.Empty(t, resp.Findings)
}

func TestCompareArrayRelatednessIsUnexpectedFormat(t *testing.T) {
	llm := &fakeAsker{relatedness: []any{"related"}}
	s := newTestCompare(t, fakeExtractor{}, &fakeOCR{}, llm)

	resp, err := s.Compare(context.Background(), txt("inv.txt", "invoice"), txt("c.txt", "contract"), false)
	require.NoError(t, err)
	assert.Equal(t, dto.RelatednessResult{Score: 0, Label: "unrelated", Explain: []string{"Unexpected format"}}, resp.Relatedness)
	assert.Equal(t, 1, llm.calls())
}

func TestNormalizeRelatednessLabelFromScore(t *testing.T) {
	s := newTestCompare(t, fakeExtractor{}, nil, &fakeAsker{})

	cases := []struct {
		reply map[string]any
		score float64
		label string
	}{
		{map[string]any{"score": 0.6}, 0.6, "related"},
		{map[string]any{"score": 0.59}, 0.59, "possibly_related"},
		{map[string]any{"score": 0.39, "label": "kinda"}, 0.39, "unrelated"},
		{map[string]any{"score": "0.7"}, 0.7, "related"},
		{map[string]any{"score": 3.0}, 1, "related"},
		{map[string]any{"score": -1.0}, 0, "unrelated"},
		{map[string]any{}, 0, "unrelated"},
		{map[string]any{"score": 0.2, "label": "related"}, 0.2, "related"},
	}
	for _, tc := range cases {
		got := s.normalizeRelatedness(tc.reply)
		assert.InDelta(t, tc.score, got.Score, 1e-9, "%v", tc.reply)
		assert.Equal(t, tc.label, got.Label, "%v", tc.reply)
		assert.NotNil(t, got.Explain)
	}
}

func TestNormalizeFindingsStringifiesAndClips(t *testing.T) {
	s := newTestCompare(t, fakeExtractor{}, nil, &fakeAsker{})

	got := s.normalizeFindings([]any{
		map[string]any{
			"code":       "QTY_EXCEEDS",
			"type":       "monetary",
			"severity":   "low",
			"confidence": 1.7,
			"expected":   10.0,
			"actual":     12.5,
			"a_excerpt":  strings.Repeat("é", 200),
			"b_location": nil,
		},
		42.0,
	})
	require.Len(t, got, 1)
	f := got[0]
	assert.Equal(t, "10", f.Expected)
	assert.Equal(t, "12.5", f.Actual)
	assert.Equal(t, 1.0, f.Confidence)
	assert.Equal(t, 160, len([]rune(f.AExcerpt)))
	assert.Empty(t, f.BLocation)

	assert.NotNil(t, s.normalizeFindings("no issues"))
	assert.Empty(t, s.normalizeFindings(nil))
}

func TestCompareTruncatesLongText(t *testing.T) {
	llm := &fakeAsker{relatedness: relatedReply(0.3, "unrelated")}
	s := newTestCompare(t, fakeExtractor{
		"big.txt": {Text: strings.Repeat("a", 130_000), Status: models.ExtractionOK},
	}, &fakeOCR{}, llm)

	resp, err := s.Compare(context.Background(), txt("big.txt", "x"), txt("c.txt", "contract"), false)
	require.NoError(t, err)
	assert.True(t, resp.Metadata.Truncated)
}

func TestCompareUnreadableNeverCallsModel(t *testing.T) {
	llm := &fakeAsker{relatedness: relatedReply(0.9, "related")}
	ocr := &fakeOCR{result: models.OCRResult{Status: models.OCRSkipped}}
	s := newTestCompare(t, fakeExtractor{
		"scan.pdf":   {Status: models.ExtractionEmpty},
		"broken.pdf": {Status: models.ExtractionFailed, Err: errors.New("xref")},
		"image.png":  {Status: models.ExtractionUnsupported},
	}, ocr, llm)

	for _, name := range []string{"scan.pdf", "broken.pdf", "image.png"} {
		_, err := s.Compare(context.Background(), txt(name, "bytes"), txt("c.txt", "contract"), false)
		assert.ErrorIs(t, err, ErrUnreadableDocument, name)
	}
	assert.Zero(t, llm.calls())
	assert.Equal(t, 2, ocr.calls, "OCR only runs for PDFs")
}

func TestCompareUsesOCRText(t *testing.T) {
	llm := &fakeAsker{relatedness: relatedReply(0.2, "unrelated")}
	ocr := &fakeOCR{result: models.OCRResult{Text: "PURCHASE ORDER 77", Status: models.OCRUsed}}
	s := newTestCompare(t, fakeExtractor{"scan.pdf": {Text: "  \n", Status: models.ExtractionEmpty}}, ocr, llm)

	resp, err := s.Compare(context.Background(), txt("inv.txt", "invoice"), txt("scan.pdf", "%PDF"), false)
	require.NoError(t, err)
	assert.Equal(t, "external-ocr", resp.Metadata.OCR)
	assert.Equal(t, "po", resp.GoverningDocType)
	assert.Equal(t, 1, ocr.calls)
}

func TestCompareRejectsOversizedUpload(t *testing.T) {
	llm := &fakeAsker{}
	s := newTestCompare(t, fakeExtractor{}, &fakeOCR{}, llm)

	_, err := s.Compare(context.Background(), txt("inv.txt", strings.Repeat("x", 1025)), txt("c.txt", "contract"), false)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Zero(t, llm.calls())
}

func TestCompareWrapsModelFailure(t *testing.T) {
	llm := &fakeAsker{err: &ProviderError{Status: 401, Body: "bad key"}}
	s := newTestCompare(t, fakeExtractor{}, &fakeOCR{}, llm)

	_, err := s.Compare(context.Background(), txt("inv.txt", "invoice"), txt("c.txt", "contract"), false)
	assert.ErrorIs(t, err, ErrModelUnavailable)
	var perr *ProviderError
	assert.ErrorAs(t, err, &perr)
}
