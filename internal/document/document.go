// Package document holds the converted form of an uploaded file.
package document

import (
	"path/filepath"
	"strings"
)

// Document is the markdown-like text of a source file, ready for clause
// segmentation.
type Document struct {
	Name  string // Source file name without directory or extension
	Title string // Title found by the converter; empty when none was found
	Text  string // Line-oriented text, headings as "#" lines
}

// NameFromFile strips directory and extension from filename.
func NameFromFile(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
