// Package loader extracts raw text from uploaded PDF and plain-text files.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"mcq-generator/internal/domain"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// TextExtractor pulls the text of every page out of a PDF, in page order.
type TextExtractor interface {
	ExtractPages(ctx context.Context, data []byte) ([]string, error)
}

// DocumentLoader reads .pdf and .txt uploads.
type DocumentLoader struct {
	pdf    TextExtractor
	logger *zap.Logger
}

// NewDocumentLoader creates a loader backed by the given PDF extractor. A nil
// extractor selects the default one.
func NewDocumentLoader(extractor TextExtractor, logger *zap.Logger) *DocumentLoader {
	if extractor == nil {
		extractor = PDFExtractor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentLoader{pdf: extractor, logger: logger}
}

// IsSupported reports whether the file name has a supported extension.
func IsSupported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt":
		return true
	default:
		return false
	}
}

// Load extracts the text of the named file from r. Unsupported names fail
// before r is read.
func (l *DocumentLoader) Load(ctx context.Context, name string, r io.Reader) (domain.SourceDocument, error) {
	if !IsSupported(name) {
		return domain.SourceDocument{}, domain.NewUnsupportedFormatError(name)
	}
	ext := strings.ToLower(filepath.Ext(name))

	data, err := io.ReadAll(r)
	if err != nil {
		return domain.SourceDocument{}, domain.NewReadError(name, err)
	}

	var text string
	switch ext {
	case ".pdf":
		text, err = l.loadPDF(ctx, data)
	case ".txt":
		text, err = loadText(data)
	}
	if err != nil {
		l.logger.Warn("Failed to extract document text",
			zap.String("file_name", name),
			zap.Int("size_bytes", len(data)),
			zap.Error(err))
		return domain.SourceDocument{}, domain.NewReadError(name, err)
	}

	l.logger.Debug("Extracted document text",
		zap.String("file_name", name),
		zap.Int("size_bytes", len(data)),
		zap.Int("text_length", len(text)))
	return domain.SourceDocument{Name: name, Text: text}, nil
}

func (l *DocumentLoader) loadPDF(ctx context.Context, data []byte) (string, error) {
	pages, err := l.pdf.ExtractPages(ctx, data)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, ""), nil
}

func loadText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("file is not valid UTF-8")
	}
	return string(data), nil
}

// PDFExtractor extracts text with github.com/ledongthuc/pdf.
type PDFExtractor struct{}

// ExtractPages returns the plain text of each page. Panics raised by the PDF
// reader on malformed input are returned as errors.
func (PDFExtractor) ExtractPages(ctx context.Context, data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	numPages := reader.NumPage()
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
