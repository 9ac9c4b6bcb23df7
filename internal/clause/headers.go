package clause

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// HeaderMap maps a section or chapter number to its display title
// ("<N>. <title>").
type HeaderMap map[string]string

// Title returns the display title for number, synthesizing
// "<n>. Раздел <n>" when the number is unknown.
func (h HeaderMap) Title(number string) string {
	if t, ok := h[number]; ok {
		return t
	}
	return fmt.Sprintf("%s. Раздел %s", number, number)
}

var (
	chapterHeaderRe  = regexp.MustCompile(`Глава\s+(\d+)\.[ \t]+([^\n]+)`)
	markdownHeaderRe = regexp.MustCompile(`#[ \t]+(\d+)\.[ \t]+([^\n]+)`)
	capsHeaderRe     = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)
	chapterLineRe    = regexp.MustCompile(`^[\s#*]*Глава\s+(\d+)\.[ \t]+\S`)
)

// IndexHeaders builds the section header map. Chapter headings are read
// first, then markdown headings, then unmarked all-caps numbered lines;
// later scans win on key collisions.
func IndexHeaders(text string) HeaderMap {
	headers := HeaderMap{}
	for _, m := range chapterHeaderRe.FindAllStringSubmatch(text, -1) {
		headers[m[1]] = m[1] + ". " + strings.TrimSpace(m[2])
	}
	for _, m := range markdownHeaderRe.FindAllStringSubmatch(text, -1) {
		headers[m[1]] = m[1] + ". " + strings.TrimSpace(m[2])
	}
	for _, line := range strings.Split(text, "\n") {
		if num, title, ok := capsHeading(line); ok {
			headers[num] = num + ". " + title
		}
	}
	return headers
}

// capsHeading reports whether line is an unmarked section heading such as
// "2. ОБЩИЕ ТРЕБОВАНИЯ".
func capsHeading(line string) (num, title string, ok bool) {
	m := capsHeaderRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}
	title = strings.TrimSpace(m[2])
	if utf8.RuneCountInString(title) <= 3 {
		return "", "", false
	}
	for _, word := range strings.Fields(title) {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
				return r
			}
			return -1
		}, word)
		if clean == "" {
			continue
		}
		if !isUpperWord(clean) {
			return "", "", false
		}
	}
	return m[1], title, true
}

// isUpperWord requires at least one cased letter and no lower-case ones,
// so purely numeric words do not qualify.
func isUpperWord(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			return false
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			cased = true
		}
	}
	return cased
}

// Boundary is the 0-based line on which a chapter heading starts.
type Boundary struct {
	Chapter string
	Line    int
}

// IndexChapters records the starting line of every "Глава N. title" line,
// in line order.
func IndexChapters(text string) []Boundary {
	var bounds []Boundary
	for i, line := range strings.Split(text, "\n") {
		if m := chapterLineRe.FindStringSubmatch(line); m != nil {
			bounds = append(bounds, Boundary{Chapter: m[1], Line: i})
		}
	}
	return bounds
}

// ChapterAt returns the chapter whose boundary is the last one starting at
// or before line, or "1" when there is none.
func ChapterAt(bounds []Boundary, line int) string {
	i := sort.Search(len(bounds), func(i int) bool { return bounds[i].Line > line })
	if i == 0 {
		return "1"
	}
	return bounds[i-1].Chapter
}
