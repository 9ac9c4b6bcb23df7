package convert

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/dgallion1/clausegest/internal/document"
	"github.com/fumiama/go-docx"
)

// DOCXConverter handles .docx files.
type DOCXConverter struct{}

var docxTitleRe = regexp.MustCompile(`(?i)ПРАВИЛА.*№`)

func (c *DOCXConverter) Convert(r io.Reader, filename string) (*document.Document, error) {
	// go-docx needs a ReaderAt+size, so write to temp file.
	tmp, err := os.CreateTemp("", "clausegest-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: parse docx: %v", ErrConversionFailed, err)
	}

	var paras, lines []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		paras = append(paras, text)
		if level := docxHeadingLevel(para); level > 0 {
			text = strings.Repeat("#", level) + " " + text
		}
		lines = append(lines, text)
	}

	return newDocument(filename, docxTitle(paras), strings.Join(lines, "\n")), nil
}

// docxTitle joins the first "ПРАВИЛА ... №" paragraph with at most two
// following ones. A paragraph opening with "(" or "Правила в редакции"
// ends the title.
func docxTitle(paras []string) string {
	var parts []string
	for _, p := range paras {
		if len(parts) == 0 {
			if docxTitleRe.MatchString(p) {
				parts = append(parts, p)
			}
			continue
		}
		if len(parts) == 3 || strings.HasPrefix(p, "(") || strings.HasPrefix(p, "Правила в редакции") {
			break
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	rest := strings.TrimPrefix(style, "heading")
	if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
		return int(rest[0] - '0')
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
