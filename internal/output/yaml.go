package output

import (
	"fmt"
	"io"

	"github.com/dgallion1/clausegest/internal/clause"
	"gopkg.in/yaml.v3"
)

// WriteYAML writes records as a YAML sequence with the JSON field names.
func WriteYAML(w io.Writer, records []clause.Record) error {
	if records == nil {
		records = []clause.Record{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
