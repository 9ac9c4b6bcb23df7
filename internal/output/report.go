package output

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"slices"
	"strings"

	"github.com/dgallion1/clausegest/internal/clause"
	"github.com/yuin/goldmark"
)

const markdownSpecials = "\\`*_{}[]()<>#+-.!|~"

// escapeMarkdown backslash-escapes every Markdown punctuation character
// so clause text renders literally.
func escapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(markdownSpecials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RenderMarkdown writes a review report: one heading per section, one
// entry per clause with its references. References that resolve to no
// clause are marked unresolved.
func RenderMarkdown(w io.Writer, title string, records []clause.Record, idx clause.Index) error {
	if idx == nil {
		idx = clause.NewIndex(records)
	}

	var b strings.Builder
	refs, dangling := 0, 0
	for _, r := range records {
		refs += len(r.Metadata.CrossReferences)
		dangling += len(idx.Dangling(r))
	}

	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(title))
	fmt.Fprintf(&b, "Clauses: **%d**, cross references: **%d**, unresolved: **%d**\n\n", len(records), refs, dangling)

	section := ""
	for i, r := range records {
		m := r.Metadata
		if i == 0 || m.ParentSectionTitle != section {
			section = m.ParentSectionTitle
			fmt.Fprintf(&b, "## %s\n\n", escapeMarkdown(section))
		}
		fmt.Fprintf(&b, "### %s\n\n%s\n\n", escapeMarkdown(m.ClauseNumber), escapeMarkdown(r.Content))

		if len(m.CrossReferences) == 0 {
			continue
		}
		numbers := make([]string, 0, len(m.CrossReferences))
		for n := range m.CrossReferences {
			numbers = append(numbers, n)
		}
		slices.Sort(numbers)
		missing := idx.Dangling(r)

		b.WriteString("References:\n\n")
		for _, n := range numbers {
			fmt.Fprintf(&b, "- %s (%s)", escapeMarkdown(n), escapeMarkdown(m.CrossReferences[n]))
			if slices.Contains(missing, n) {
				b.WriteString(" *unresolved*")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderReport writes the Markdown report converted to a standalone HTML
// page.
func RenderReport(w io.Writer, title string, records []clause.Record, idx clause.Index) error {
	var md bytes.Buffer
	if err := RenderMarkdown(&md, title, records, idx); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := goldmark.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(title), body.String())
	return err
}
