package service

import (
	"bytes"
	"fmt"
	"strings"

	"two-doc-checker/pkg/config"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// pdfTextEngine returns the text layer of every page, in page order. Pages
// without a text layer yield "".
type pdfTextEngine interface {
	Name() string
	PageTexts(data []byte) ([]string, error)
}

func newPDFEngine(name string) pdfTextEngine {
	if name == config.PDFEngineNative {
		return nativeEngine{}
	}
	return fitzEngine{}
}

// fitzEngine extracts through MuPDF.
type fitzEngine struct{}

func (fitzEngine) Name() string { return config.PDFEngineFitz }

func (fitzEngine) PageTexts(data []byte) ([]string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]string, doc.NumPage())
	for i := range pages {
		text, err := doc.Text(i)
		if err != nil {
			continue
		}
		pages[i] = text
	}
	return pages, nil
}

// nativeEngine is pure Go and needs no MuPDF shared library.
type nativeEngine struct{}

func (nativeEngine) Name() string { return config.PDFEngineNative }

func (nativeEngine) PageTexts(data []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	n := r.NumPage()
	pages := make([]string, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages[i-1] = text
	}
	return pages, nil
}

func joinPages(pages []string) string {
	return strings.Join(pages, "\n")
}
