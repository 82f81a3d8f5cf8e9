package models

import (
	"path/filepath"
	"strings"
)

// UploadedDocument is one side of a comparison as received from the caller.
type UploadedDocument struct {
	Filename string
	Data     []byte
}

// Ext returns the lower-cased filename extension including the dot.
func (d UploadedDocument) Ext() string {
	return strings.ToLower(filepath.Ext(d.Filename))
}

// IsPDF reports whether the filename names a PDF.
func (d UploadedDocument) IsPDF() bool {
	return d.Ext() == ".pdf"
}

type ExtractionStatus string

const (
	ExtractionOK          ExtractionStatus = "ok"
	ExtractionEmpty       ExtractionStatus = "empty"
	ExtractionUnsupported ExtractionStatus = "unsupported"
	ExtractionFailed      ExtractionStatus = "failed"
)

// ExtractionOutcome separates a document that parsed but held no text from
// one whose parser failed. Text is always empty for unsupported and failed.
type ExtractionOutcome struct {
	Text   string
	Status ExtractionStatus
	Err    error
}

type OCRStatus string

const (
	OCRUsed    OCRStatus = "used"
	OCRSkipped OCRStatus = "skipped"
	OCREmpty   OCRStatus = "empty"
	OCRFailed  OCRStatus = "failed"
)

type OCRResult struct {
	Text   string
	Status OCRStatus
	Err    error
}

type OCRSource string

const (
	OCRSourceNone     OCRSource = "none"
	OCRSourceExternal OCRSource = "external-ocr"
)

// ExtractedText is the final, capped text of one document.
type ExtractedText struct {
	Text      string
	Truncated bool
	OCRSource OCRSource
}
