package clause

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultTitle stands in for documents whose title cannot be determined.
const DefaultTitle = "Документ"

const shortTitleLimit = 50

// Titles is the full and short display title of a document.
type Titles struct {
	Full  string
	Short string
}

var (
	rulesLineRe  = regexp.MustCompile(`(?i)^ПРАВИЛА\s+№\s+\d+`)
	rulesShortRe = regexp.MustCompile(`(?i)ПРАВИЛА №\s*\d+`)
	numberedRe   = regexp.MustCompile(`^\d+\.`)

	// Lines that end the title block.
	serviceOpeners = []string{"Правила в редакции", "Согласованы", "Глава"}

	titleKeywords = []string{"ПРАВИЛА", "ПОЛОЖЕНИЕ", "ПРИКАЗ", "УКАЗ"}
)

// ResolveTitles uses supplied verbatim as the full title when it is not
// blank and otherwise extracts one from text. The full title may be empty.
func ResolveTitles(text, supplied string) Titles {
	full := supplied
	if strings.TrimSpace(supplied) == "" {
		full = ExtractTitle(text)
	}
	return Titles{Full: full, Short: ShortTitle(full)}
}

// ExtractTitle finds the document title in text. It prefers a
// "ПРАВИЛА № N" line with up to three continuation lines, then the first
// non-heading line naming a document kind. It returns "" when neither exists.
func ExtractTitle(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if !rulesLineRe.MatchString(line) {
			continue
		}
		parts := []string{line}
		for j := i + 1; j < len(lines) && j <= i+3; j++ {
			next := strings.TrimSpace(lines[j])
			if endsTitleBlock(next) {
				break
			}
			if utf8.RuneCountInString(next) > 3 {
				parts = append(parts, next)
			}
		}
		return strings.Join(parts, " ")
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		upper := strings.ToUpper(line)
		for _, kw := range titleKeywords {
			if strings.Contains(upper, kw) {
				return line
			}
		}
	}
	return ""
}

func endsTitleBlock(line string) bool {
	if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "(") || numberedRe.MatchString(line) {
		return true
	}
	for _, opener := range serviceOpeners {
		if strings.HasPrefix(line, opener) {
			return true
		}
	}
	return false
}

// ShortTitle derives the short title: the "ПРАВИЛА № N" fragment when
// present, else the first 50 characters with an ellipsis when truncated.
func ShortTitle(full string) string {
	if strings.Contains(full, "ПРАВИЛА №") {
		if m := rulesShortRe.FindString(full); m != "" {
			return m
		}
	}
	if utf8.RuneCountInString(full) > shortTitleLimit {
		return string([]rune(full)[:shortTitleLimit]) + "..."
	}
	return full
}
