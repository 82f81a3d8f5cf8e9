package service

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBodyPart = "word/document.xml"

var errNoDocxBody = errors.New("word/document.xml not found")

// docxParagraphs streams the WordprocessingML body and returns the text of
// every w:p in document order, table cells included. Text inside drawings,
// text boxes and mc:AlternateContent is not part of the flow and is skipped.
func docxParagraphs(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx archive: %w", err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return nil, errNoDocxBody
	}

	rc, err := body.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", docxBodyPart, err)
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	var (
		paragraphs []string
		// open w:p elements, innermost last
		stack  []*strings.Builder
		inRun  int
		inText int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", docxBodyPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			// Drawings, text boxes and markup-compatibility wrappers hold
			// their own paragraphs (often twice, as Choice and Fallback).
			if !isWordML(t.Name) || skippedWordElements[t.Name.Local] {
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("failed to parse %s: %w", docxBodyPart, err)
				}
				continue
			}
			switch t.Name.Local {
			case "p":
				stack = append(stack, &strings.Builder{})
			case "r":
				inRun++
			case "t":
				inText++
			// w:tab also appears under w:pPr as a tab-stop definition; only
			// tabs inside a run are content.
			case "tab":
				if len(stack) > 0 && inRun > 0 {
					stack[len(stack)-1].WriteByte('\t')
				}
			case "br", "cr":
				if len(stack) > 0 && inRun > 0 {
					stack[len(stack)-1].WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if n := len(stack); n > 0 {
					paragraphs = append(paragraphs, stack[n-1].String())
					stack = stack[:n-1]
				}
			case "r":
				if inRun > 0 {
					inRun--
				}
			case "t":
				if inText > 0 {
					inText--
				}
			}
		case xml.CharData:
			if len(stack) > 0 && inText > 0 {
				stack[len(stack)-1].Write(t)
			}
		}
	}
	return paragraphs, nil
}

// WordprocessingML main namespaces, transitional and strict.
const (
	wordMLNamespace       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	wordMLStrictNamespace = "http://purl.oclc.org/ooxml/wordprocessingml/main"
)

var skippedWordElements = map[string]bool{
	"drawing":     true,
	"pict":        true,
	"object":      true,
	"txbxContent": true,
}

func isWordML(name xml.Name) bool {
	return name.Space == wordMLNamespace || name.Space == wordMLStrictNamespace
}
