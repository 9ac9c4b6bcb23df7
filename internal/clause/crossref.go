package clause

import (
	"regexp"
	"sort"
)

// crossRefRe matches "пункт"/"подпункт" with up to two inflection letters
// followed by a dotted clause number. Go's \b is ASCII-only, so the left
// boundary is an explicit non-letter.
var crossRefRe = regexp.MustCompile(`(?:^|[^\p{L}\p{N}])((?:[Пп]од)?[Пп]ункт[а-я]{0,2}[\s\p{Zs}]+(\d+(?:\.\d+)+))`)

// Index maps clause numbers to clause content. On duplicate numbers the
// last record wins.
type Index map[string]string

// NewIndex builds the lookup from the final clause sequence.
func NewIndex(records []Record) Index {
	idx := make(Index, len(records))
	for _, rec := range records {
		idx[rec.Metadata.ClauseNumber] = rec.Content
	}
	return idx
}

// Resolve returns the content of the referenced clause.
func (idx Index) Resolve(number string) (string, bool) {
	content, ok := idx[number]
	return content, ok
}

// Dangling lists, sorted, the references of rec that point at no known clause.
func (idx Index) Dangling(rec Record) []string {
	var out []string
	for number := range rec.Metadata.CrossReferences {
		if _, ok := idx[number]; !ok {
			out = append(out, number)
		}
	}
	sort.Strings(out)
	return out
}

// References returns the clause numbers mentioned in content, mapped to
// the first surface wording of each mention. self is never included.
func References(content, self string) map[string]string {
	refs := map[string]string{}
	for _, m := range crossRefRe.FindAllStringSubmatch(content, -1) {
		phrase, number := m[1], m[2]
		if number == self {
			continue
		}
		if _, ok := refs[number]; !ok {
			refs[number] = phrase
		}
	}
	return refs
}

// Enrich returns new records with cross references filled in, plus the
// clause lookup they were resolved against. References to unknown clauses
// are kept.
func Enrich(records []Record) ([]Record, Index) {
	idx := NewIndex(records)
	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = rec.WithCrossReferences(References(rec.Content, rec.Metadata.ClauseNumber))
	}
	return out, idx
}
