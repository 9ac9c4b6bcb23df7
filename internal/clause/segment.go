package clause

import (
	"regexp"
	"sort"
	"strings"
)

// markerPass is one numbering form the segmenter recognizes, at line start.
type markerPass struct {
	name  string
	re    *regexp.Regexp
	parts int  // number of numeric groups
	loose bool // body starts at the last group, no space after the final dot
}

// Passes run most specific first. Matching is RE2, so it stays linear on
// any input. The deepest pass takes the whole dotted tail ("1.2.3.4.") as its last
// part. A marker may be followed by spaces or by a line break.
var markerPasses = []markerPass{
	{name: "A.B.C.", re: regexp.MustCompile(`(?m)^[ \t]*(\d+)\.(\d+)\.(\d+(?:\.\d+)*)\.[ \t]*`), parts: 3},
	{name: "A.B. ", re: regexp.MustCompile(`(?m)^[ \t]*(\d+)\.(\d+)\.[ \t]*[ \t\n][ \t]*`), parts: 2},
	{name: "A.Btext", re: regexp.MustCompile(`(?m)^[ \t]*(\d+)\.(\d+)\.([^\s\d.])`), parts: 2, loose: true},
	{name: "A. ", re: regexp.MustCompile(`(?m)^[ \t]*(\d+)\.[ \t]*[ \t\n][ \t]*`), parts: 1},
}

var (
	headingLineRe = regexp.MustCompile(`^[ \t]*#`)
	newlinesRe    = regexp.MustCompile(`[\r\n]+`)
)

type span struct{ start, end int }

type positioned struct {
	start int
	rec   Record
}

// Context carries the per-document state shared by the segmentation steps:
// titles, header map, chapter boundaries and the clause numbers claimed so
// far. A Context belongs to one document and one goroutine.
type Context struct {
	Titles   Titles
	Headers  HeaderMap
	Chapters []Boundary

	claimed map[string]bool
}

// NewContext indexes text once. An empty resolved title is replaced with
// DefaultTitle.
func NewContext(text, title string) *Context {
	titles := ResolveTitles(text, title)
	if titles.Full == "" {
		titles = Titles{Full: DefaultTitle, Short: ShortTitle(DefaultTitle)}
	}
	return &Context{
		Titles:   titles,
		Headers:  IndexHeaders(text),
		Chapters: IndexChapters(text),
		claimed:  map[string]bool{},
	}
}

// Claimed reports whether number has already been assigned to a clause.
func (c *Context) Claimed(number string) bool {
	return c.claimed[number]
}

// Segment partitions text into clause records, ordered by position.
//
// Each pass claims text from its marker to the next multi-level marker,
// heading or chapter line (single-level clauses also stop at the next
// single-level marker). A match is dropped when its clause number is
// already claimed or when its marker lies inside a span claimed by an
// earlier pass; the latter leaves inline enumerations to SplitSubClauses.
func (c *Context) Segment(text string) []Record {
	lineStarts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	lineOf := func(off int) int {
		return sort.SearchInts(lineStarts, off+1) - 1
	}
	lineAt := func(line int) string {
		end := len(text)
		if line+1 < len(lineStarts) {
			end = lineStarts[line+1] - 1
		}
		return text[lineStarts[line]:end]
	}

	headingLine := make(map[int]bool)
	var stops, singleStops []int
	for i, start := range lineStarts {
		l := lineAt(i)
		_, _, caps := capsHeading(l)
		if caps || headingLineRe.MatchString(l) || chapterLineRe.MatchString(l) {
			headingLine[i] = true
			stops = append(stops, start)
		}
	}

	matches := make([][][]int, len(markerPasses))
	for i, p := range markerPasses {
		matches[i] = p.re.FindAllStringSubmatchIndex(text, -1)
		for _, m := range matches[i] {
			if p.parts == 1 {
				singleStops = append(singleStops, m[0])
			} else {
				stops = append(stops, m[0])
			}
		}
	}
	sort.Ints(stops)
	allStops := append(append([]int(nil), stops...), singleStops...)
	sort.Ints(allStops)

	var spans []span
	var out []positioned

	for i, p := range markerPasses {
		bounds := stops
		if p.parts == 1 {
			bounds = allStops
		}
		for _, m := range matches[i] {
			start := m[0]
			line := lineOf(start)
			if p.parts == 1 && headingLine[line] {
				continue
			}

			// Nested in a clause claimed by a more specific pass.
			idx := sort.Search(len(spans), func(k int) bool { return spans[k].start > start })
			if idx > 0 && spans[idx-1].end > start {
				continue
			}

			parts := make([]string, p.parts)
			for g := range parts {
				parts[g] = text[m[2+2*g]:m[3+2*g]]
			}
			number, sectionKey := c.compose(parts, line)
			if c.claimed[number] {
				continue
			}

			end := len(text)
			if k := sort.SearchInts(bounds, start+1); k < len(bounds) {
				end = bounds[k]
			}
			body := m[1]
			if p.loose {
				body = m[6]
			}
			if body > end {
				body = end
			}

			c.claimed[number] = true
			spans = append(spans, span{})
			copy(spans[idx+1:], spans[idx:])
			spans[idx] = span{start: start, end: end}

			out = append(out, positioned{
				start: start,
				rec:   newRecord(c.Titles, number, c.Headers.Title(sectionKey), collapse(text[body:end])),
			})
		}
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].start < out[b].start })
	records := make([]Record, len(out))
	for i, p := range out {
		records[i] = p.rec
	}
	return records
}

// compose builds the clause number for the numeric parts of a marker found
// on line. Multi-level numbers whose leading part is a known section keep
// their own numbering; everything else is prefixed with the enclosing
// chapter. The second result is the header key of the parent section.
func (c *Context) compose(parts []string, line int) (number, sectionKey string) {
	joined := strings.Join(parts, ".")
	if len(parts) > 1 {
		if _, ok := c.Headers[parts[0]]; ok {
			return joined, parts[0]
		}
	}
	chapter := ChapterAt(c.Chapters, line)
	return chapter + "." + joined, chapter
}

func collapse(s string) string {
	return strings.TrimSpace(newlinesRe.ReplaceAllString(s, " "))
}
