// Package extract pulls plain text and page metadata out of submitted documents.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/originscan/internal/model"
)

// Format is a supported document type
type Format string

const (
	FormatUnknown Format = ""
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatHTML    Format = "html"
	FormatText    Format = "text"
)

// SupportedExtensions lists the file extensions batch mode picks up
var SupportedExtensions = []string{".pdf", ".docx", ".html", ".htm", ".txt", ".md"}

// Extractor turns raw documents into ExtractedContent
type Extractor struct {
	maxBytes       int64
	minTextPerPage int

	// pdfPages returns the plain text of each PDF page
	pdfPages func(data []byte) ([]string, error)
}

// NewExtractor creates an extractor from configuration
func NewExtractor(cfg model.ExtractConfig) *Extractor {
	e := &Extractor{
		maxBytes:       cfg.MaxFileBytes,
		minTextPerPage: cfg.MinTextPerPage,
		pdfPages:       readPDFPages,
	}
	if e.minTextPerPage <= 0 {
		e.minTextPerPage = 100
	}
	return e
}

// WithPDFReader replaces the PDF page reader
func (e *Extractor) WithPDFReader(fn func(data []byte) ([]string, error)) *Extractor {
	e.pdfPages = fn
	return e
}

// Extract detects the document format and returns its text and metadata.
// Any failure is reported as *model.ExtractionError.
func (e *Extractor) Extract(ctx context.Context, data []byte, filename string) (*model.ExtractedContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fail := func(err error) error {
		return &model.ExtractionError{Filename: filename, Err: err}
	}

	if len(data) == 0 {
		return nil, fail(errors.New("empty document"))
	}
	if e.maxBytes > 0 && int64(len(data)) > e.maxBytes {
		return nil, fail(fmt.Errorf("document is %d bytes, limit is %d", len(data), e.maxBytes))
	}

	switch format := DetectFormat(data, filename); format {
	case FormatPDF:
		pages, err := e.pdfPages(data)
		if err != nil {
			return nil, fail(fmt.Errorf("parse pdf: %w", err))
		}
		if len(pages) == 0 {
			return nil, fail(errors.New("pdf has no pages"))
		}
		text := strings.TrimSpace(strings.Join(pages, "\n"))
		return model.NewExtractedContent(text, len(pages), IsScanned(text, len(pages), e.minTextPerPage)), nil

	case FormatDOCX:
		text, pages, err := extractDOCX(data)
		if err != nil {
			return nil, fail(err)
		}
		return model.NewExtractedContent(text, pages, false), nil

	case FormatHTML:
		text, err := extractHTML(data)
		if err != nil {
			return nil, fail(err)
		}
		return model.NewExtractedContent(text, 1, false), nil

	case FormatText:
		text, pages := extractText(data)
		return model.NewExtractedContent(text, pages, false), nil

	default:
		return nil, fail(fmt.Errorf("unsupported document format (%s)", describe(filename)))
	}
}

// IsScanned reports whether a PDF's text layer is too thin to be real text
func IsScanned(text string, pages, minPerPage int) bool {
	if pages <= 0 {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(text))/pages < minPerPage
}

// DetectFormat sniffs magic bytes first and falls back to the file extension
func DetectFormat(data []byte, filename string) Format {
	head := bytes.TrimLeft(data[:min(len(data), 1024)], " \t\r\n\ufeff")
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case bytes.HasPrefix(head, []byte("%PDF-")):
		return FormatPDF
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		if isDOCX(data) {
			return FormatDOCX
		}
		return FormatUnknown
	}

	switch ext {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".html", ".htm":
		return FormatHTML
	}

	lower := bytes.ToLower(head)
	if bytes.HasPrefix(lower, []byte("<!doctype html")) || bytes.Contains(lower, []byte("<html")) {
		return FormatHTML
	}

	if ext == ".txt" || ext == ".md" || (utf8.Valid(data) && !bytes.ContainsRune(data, 0)) {
		return FormatText
	}
	return FormatUnknown
}

func isDOCX(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}

func describe(filename string) string {
	if ext := filepath.Ext(filename); ext != "" {
		return ext
	}
	return "no extension"
}
