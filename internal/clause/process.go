package clause

import "strings"

// Process runs the full clause pipeline over text: titles and indexes,
// segmentation, sub-clause splitting, then cross reference enrichment.
// title, when not empty, is used verbatim as the document title. The steps
// run in this order because splitting needs every segmented number claimed
// and enrichment needs the final numbering. Process never fails; text
// without recognizable structure yields no records.
func Process(text, title string) []Record {
	records, _ := ProcessIndexed(text, title)
	return records
}

// ProcessIndexed is Process that also returns the clause lookup the
// references were resolved against.
func ProcessIndexed(text, title string) ([]Record, Index) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	ctx := NewContext(text, title)
	records := ctx.Split(ctx.Segment(text))
	return Enrich(records)
}
