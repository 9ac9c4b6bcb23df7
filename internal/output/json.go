// Package output serializes clause records for storage and review.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/clausegest/internal/clause"
)

// WriteJSON writes records as an indented UTF-8 JSON array. Cyrillic text
// and markup characters are written as is, not escaped.
func WriteJSON(w io.Writer, records []clause.Record) error {
	if records == nil {
		records = []clause.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// Write dispatches on format ("json" or "yaml").
func Write(w io.Writer, format string, records []clause.Record) error {
	switch format {
	case "", "json":
		return WriteJSON(w, records)
	case "yaml", "yml":
		return WriteYAML(w, records)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	if format == "yaml" || format == "yml" {
		return "application/yaml; charset=utf-8"
	}
	return "application/json; charset=utf-8"
}
