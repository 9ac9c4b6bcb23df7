// Package convert turns uploaded files into line-oriented text for the
// clause segmenter.
package convert

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/clausegest/internal/document"
	"golang.org/x/text/unicode/norm"
)

// Failure kinds. Callers match them with errors.Is.
var (
	ErrUnsupportedFormat    = errors.New("unsupported format")
	ErrConverterUnavailable = errors.New("converter unavailable")
	ErrConversionFailed     = errors.New("conversion failed")
)

// Converter converts raw document bytes into a Document.
type Converter interface {
	Convert(r io.Reader, filename string) (*document.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// Options tunes converter construction.
type Options struct {
	PDFFallback bool // shell out to pdftotext when the PDF library fails
}

// ForFile returns the converter for filename with default options.
func ForFile(filename string) (Converter, error) {
	return Options{}.ForFile(filename)
}

// ForFile returns the appropriate converter for a filename.
func (o Options) ForFile(filename string) (Converter, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextConverter{}, nil
	case ".md", ".markdown":
		return &MarkdownConverter{}, nil
	case ".html", ".htm":
		return &HTMLConverter{}, nil
	case ".pdf":
		return &PDFConverter{FallbackPdftotext: o.PDFFallback}, nil
	case ".docx":
		return &DOCXConverter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// File converts r, picking the converter by filename.
func (o Options) File(r io.Reader, filename string) (*document.Document, error) {
	c, err := o.ForFile(filename)
	if err != nil {
		return nil, err
	}
	return c.Convert(r, filename)
}

// normalize folds line endings and composes the text to NFC so that
// decomposed letters (й, ё) match the segmenter's patterns.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return norm.NFC.String(s)
}

func newDocument(filename, title, text string) *document.Document {
	return &document.Document{
		Name:  document.NameFromFile(filename),
		Title: strings.TrimSpace(normalize(title)),
		Text:  normalize(text),
	}
}
