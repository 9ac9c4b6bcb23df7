package clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var splitTitles = Titles{Full: "ПРАВИЛА № 1", Short: "ПРАВИЛА № 1"}

func TestSplitSubClauses_Expands(t *testing.T) {
	parent := newRecord(splitTitles, "2.1", "2. РАЗДЕЛ", "1. Первое. 2. Второе.")

	out := SplitSubClauses([]Record{parent})
	require.Len(t, out, 2)

	assert.Equal(t, "2.1.1", out[0].Metadata.ClauseNumber)
	assert.Equal(t, "Первое.", out[0].Content)
	assert.Equal(t, "2.1.2", out[1].Metadata.ClauseNumber)
	assert.Equal(t, "Второе.", out[1].Content)

	for _, r := range out {
		assert.Equal(t, "2. РАЗДЕЛ", r.Metadata.ParentSectionTitle)
		assert.Equal(t, [3]string{"ПРАВИЛА № 1", "2. РАЗДЕЛ", r.Metadata.ClauseNumber}, r.Metadata.Hierarchy)
		assert.NotEqual(t, "2.1", r.Metadata.ClauseNumber)
	}
}

func TestSplitSubClauses_PassThrough(t *testing.T) {
	rec := newRecord(splitTitles, "1.1", "1. РАЗДЕЛ", "Текст со ссылкой на пунктом 3. настоящих Правил.")
	out := SplitSubClauses([]Record{rec})
	require.Len(t, out, 1)
	assert.Equal(t, rec, out[0])
}

func TestSplitSubClauses_KeepsParentOnCollision(t *testing.T) {
	parent := newRecord(splitTitles, "2.1", "2. РАЗДЕЛ", "1. Первое. 2. Второе.")
	existing := newRecord(splitTitles, "2.1.1", "2. РАЗДЕЛ", "Уже есть.")

	out := SplitSubClauses([]Record{parent, existing})
	assert.Equal(t, []string{"2.1", "2.1.1"}, numbers(out))
}

func TestSplitSubClauses_KeepsParentOnRepeatedMarker(t *testing.T) {
	parent := newRecord(splitTitles, "2.1", "2. РАЗДЕЛ", "1. Первое. 1. Снова первое.")
	out := SplitSubClauses([]Record{parent})
	assert.Equal(t, []string{"2.1"}, numbers(out))
}

func TestProcess_SubClauseExpansion(t *testing.T) {
	records := Process("Глава 2. ТРЕБОВАНИЯ\n2.1. 1. Первое. 2. Второе.", "")
	assert.Equal(t, []string{"2.1.1", "2.1.2"}, numbers(records))
}

func TestSplitSubClauses_CitationAbbreviations(t *testing.T) {
	rec := newRecord(splitTitles, "1.1", "1. РАЗДЕЛ", "Согласно ч. 2. ст. 5 Закона действует порядок.")
	out := SplitSubClauses([]Record{rec})
	require.Len(t, out, 1)
	assert.Equal(t, rec, out[0])

	list := newRecord(splitTitles, "1.2", "1. РАЗДЕЛ", "Документы: 1. Копия по ч. 2. ст. 5. 2. Справка.")
	out = SplitSubClauses([]Record{list})
	assert.Equal(t, []string{"1.2.1", "1.2.2"}, numbers(out))
	assert.Equal(t, "Копия по ч. 2. ст. 5.", out[0].Content)
	assert.Equal(t, "Справка.", out[1].Content)
}

func TestWordBefore(t *testing.T) {
	assert.Equal(t, "ч", wordBefore("Согласно ч. 2", len("Согласно ч")))
	assert.Equal(t, "ст", wordBefore("Ст.", len("Ст")))
	assert.Equal(t, "", wordBefore("1.", 1))
}
