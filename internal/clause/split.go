package clause

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// inlineNumberRe finds "N. " candidates inside a clause body. A candidate
// opens an enumeration item only when it starts the body or follows a
// sentence or list terminator and whitespace, so numbers quoted
// mid-sentence ("пунктом 3. настоящих") are left alone.
var inlineNumberRe = regexp.MustCompile(`(\d+)\.\s+`)

// Abbreviations whose period is not a sentence end: "ч. 2. ст. 5" cites a
// part of an article, it does not enumerate.
var citationAbbrevs = map[string]bool{
	"ч": true, "ст": true, "п": true, "пп": true, "подп": true, "абз": true,
	"г": true, "гл": true, "разд": true, "прил": true, "табл": true, "рис": true, "см": true,
}

// inlineMarkers returns the enumeration markers of content.
func inlineMarkers(content string) [][]int {
	var out [][]int
	for _, m := range inlineNumberRe.FindAllStringSubmatchIndex(content, -1) {
		if opensItem(content, m[0]) {
			out = append(out, m)
		}
	}
	return out
}

func opensItem(s string, i int) bool {
	if i == 0 {
		return true
	}
	before := strings.TrimRightFunc(s[:i], unicode.IsSpace)
	if len(before) == i {
		return false
	}
	if before == "" {
		return true
	}
	last, _ := utf8.DecodeLastRuneInString(before)
	if !strings.ContainsRune(".:;!?", last) {
		return false
	}
	return last != '.' || !citationAbbrevs[wordBefore(before, len(before)-1)]
}

// wordBefore returns the lower-cased run of letters ending at i.
func wordBefore(s string, i int) string {
	start := i
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:start])
		if !unicode.IsLetter(r) {
			break
		}
		start -= size
	}
	return strings.ToLower(s[start:i])
}

// Split replaces every record whose content is an inline enumeration with
// one child per item, numbered "<parent>.N". Records without markers pass
// through. A record is also kept whole when any child number would clash
// with a claimed clause number or with a sibling.
func (c *Context) Split(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		children := c.children(rec)
		if children == nil {
			out = append(out, rec)
			continue
		}
		delete(c.claimed, rec.Metadata.ClauseNumber)
		for _, child := range children {
			c.claimed[child.Metadata.ClauseNumber] = true
		}
		out = append(out, children...)
	}
	return out
}

func (c *Context) children(rec Record) []Record {
	content := rec.Content
	ms := inlineMarkers(content)
	if len(ms) == 0 {
		return nil
	}
	parent := rec.Metadata.ClauseNumber
	seen := make(map[string]bool, len(ms))
	children := make([]Record, 0, len(ms))
	for i, m := range ms {
		number := parent + "." + content[m[2]:m[3]]
		if seen[number] || c.claimed[number] {
			return nil
		}
		seen[number] = true

		end := len(content)
		if i+1 < len(ms) {
			end = ms[i+1][2]
		}
		children = append(children, rec.withNumber(number, collapse(content[m[1]:end])))
	}
	return children
}

// SplitSubClauses runs the sub-clause split over records produced
// elsewhere, treating their clause numbers as claimed.
func SplitSubClauses(records []Record) []Record {
	c := &Context{claimed: make(map[string]bool, len(records))}
	for _, rec := range records {
		c.claimed[rec.Metadata.ClauseNumber] = true
	}
	return c.Split(records)
}
