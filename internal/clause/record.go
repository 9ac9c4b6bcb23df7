// Package clause segments regulatory text into uniquely numbered clause
// records and links clauses that mention each other.
package clause

// Metadata locates a clause inside its document.
type Metadata struct {
	SourceDocumentTitle string            `json:"source_document_title" yaml:"source_document_title"`
	ShortDocumentTitle  string            `json:"short_document_title" yaml:"short_document_title"`
	ClauseNumber        string            `json:"clause_number" yaml:"clause_number"`
	ParentSectionTitle  string            `json:"parent_section_title" yaml:"parent_section_title"`
	Hierarchy           [3]string         `json:"hierarchy" yaml:"hierarchy"`
	CrossReferences     map[string]string `json:"cross_references" yaml:"cross_references"`
}

// Record is a single addressable clause.
type Record struct {
	Content  string   `json:"page_content" yaml:"page_content"`
	Metadata Metadata `json:"metadata" yaml:"metadata"`
}

func newRecord(titles Titles, number, section, content string) Record {
	return Record{
		Content: content,
		Metadata: Metadata{
			SourceDocumentTitle: titles.Full,
			ShortDocumentTitle:  titles.Short,
			ClauseNumber:        number,
			ParentSectionTitle:  section,
			Hierarchy:           [3]string{titles.Short, section, number},
			CrossReferences:     map[string]string{},
		},
	}
}

// withNumber returns a copy renumbered as number, with the hierarchy
// recomputed and a fresh empty reference map.
func (r Record) withNumber(number, content string) Record {
	m := r.Metadata
	m.ClauseNumber = number
	m.Hierarchy = [3]string{m.ShortDocumentTitle, m.ParentSectionTitle, number}
	m.CrossReferences = map[string]string{}
	return Record{Content: content, Metadata: m}
}

// WithCrossReferences returns a copy of r carrying refs. r is not modified.
func (r Record) WithCrossReferences(refs map[string]string) Record {
	cp := make(map[string]string, len(refs))
	for k, v := range refs {
		cp[k] = v
	}
	r.Metadata.CrossReferences = cp
	return r
}
