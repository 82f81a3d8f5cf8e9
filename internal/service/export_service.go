package service

import (
	"fmt"
	"strconv"
	"strings"

	"two-doc-checker/internal/dto"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	findingsSheet = "Findings"
	summarySheet  = "Summary"
)

var findingColumns = []string{
	"code", "type", "severity", "confidence", "expected", "actual",
	"a_excerpt", "b_excerpt", "a_location", "b_location", "suggested_resolution",
}

func findingRow(f dto.Finding) []string {
	return []string{
		f.Code, f.Type, f.Severity, strconv.FormatFloat(f.Confidence, 'f', -1, 64), f.Expected, f.Actual,
		f.AExcerpt, f.BExcerpt, f.ALocation, f.BLocation, f.SuggestedResolution,
	}
}

// ExportService renders comparison results as downloadable files.
type ExportService struct {
	logger *zap.Logger
}

func NewExportService(logger *zap.Logger) *ExportService {
	return &ExportService{logger: logger}
}

// ExportCSV writes a plain header line followed by one fully quoted row per
// finding. Lines are separated by "\n".
func (s *ExportService) ExportCSV(findings []dto.Finding) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(findingColumns, ","))
	for _, f := range findings {
		b.WriteByte('\n')
		for i, v := range findingRow(f) {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(v, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return []byte(b.String())
}

// ExportXLSX returns a workbook with a Findings sheet and a Summary sheet.
func (s *ExportService) ExportXLSX(resp *dto.ComparisonResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	// The default "Sheet1" becomes the findings sheet.
	if err := f.SetSheetName(f.GetSheetName(0), findingsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}

	if err := writeRow(f, findingsSheet, 1, findingColumns); err != nil {
		return nil, err
	}
	for i, finding := range resp.Findings {
		row := findingRow(finding)
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		values[3] = finding.Confidence
		if err := writeRow(f, findingsSheet, i+2, values); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(findingsSheet, "A", "A", 30)
	_ = f.SetColWidth(findingsSheet, "B", "D", 12)
	_ = f.SetColWidth(findingsSheet, "E", "F", 24)
	_ = f.SetColWidth(findingsSheet, "G", "H", 48)
	_ = f.SetColWidth(findingsSheet, "I", "J", 18)
	_ = f.SetColWidth(findingsSheet, "K", "K", 48)

	summary := [][]any{
		{"relatedness_score", resp.Relatedness.Score},
		{"relatedness_label", resp.Relatedness.Label},
		{"explain", strings.Join(resp.Relatedness.Explain, "; ")},
		{"governing_doc_type", resp.GoverningDocType},
		{"ocr", resp.Metadata.OCR},
		{"truncated", resp.Metadata.Truncated},
		{"findings", len(resp.Findings)},
	}
	for i, row := range summary {
		if err := writeRow(f, summarySheet, i+1, row); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 22)
	_ = f.SetColWidth(summarySheet, "B", "B", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow[T any](f *excelize.File, sheet string, row int, values []T) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
