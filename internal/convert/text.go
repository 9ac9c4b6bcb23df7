package convert

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/dgallion1/clausegest/internal/document"
)

// TextConverter handles plain text files. The text already carries the
// line structure the segmenter needs, so it passes through unchanged.
type TextConverter struct{}

func (c *TextConverter) Convert(r io.Reader, filename string) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	if !utf8.Valid(src) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", ErrConversionFailed, filename)
	}
	return newDocument(filename, "", string(src)), nil
}
