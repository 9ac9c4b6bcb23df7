package clause

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rulesDocument = `ПРАВИЛА № 32
оказания услуг
(в редакции от 2023)
Глава 1. ОБЩИЕ ПОЛОЖЕНИЯ
1.1. Настоящие Правила определяют порядок.
1.2. Термины:
1. Клиент — лицо. 2. Банк — организация.
1.3.Применяется согласно пункту 1.1.
1.3.1. Подпункт первый, см. подпункт 1.3.2.
1.3.2. Подпункт второй.
2. ПРАВА СТОРОН
2.1. Стороны вправе.
Глава 3. ЗАКЛЮЧИТЕЛЬНЫЕ ПОЛОЖЕНИЯ
1. Правила вступают в силу.
2. Изменения вносятся приказом.`

func numbers(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Metadata.ClauseNumber
	}
	return out
}

func byNumber(t *testing.T, records []Record, number string) Record {
	t.Helper()
	for _, r := range records {
		if r.Metadata.ClauseNumber == number {
			return r
		}
	}
	t.Fatalf("clause %q not found in %v", number, numbers(records))
	return Record{}
}

func TestProcess_EndToEnd(t *testing.T) {
	text := "Глава 1. ОБЩИЕ ПОЛОЖЕНИЯ\n1.1. Текст первого пункта, см. пункт 1.2.\n1.2. Текст второго пункта."

	records := Process(text, "ПРАВИЛА № 5")
	require.Len(t, records, 2)

	first, second := records[0], records[1]
	assert.Equal(t, "1.1", first.Metadata.ClauseNumber)
	assert.Equal(t, "1.2", second.Metadata.ClauseNumber)
	assert.Equal(t, map[string]string{"1.2": "пункт 1.2"}, first.Metadata.CrossReferences)
	assert.Equal(t, map[string]string{}, second.Metadata.CrossReferences)

	assert.Equal(t, "Текст первого пункта, см. пункт 1.2.", first.Content)
	assert.Equal(t, "ПРАВИЛА № 5", first.Metadata.SourceDocumentTitle)
	assert.Equal(t, "ПРАВИЛА № 5", first.Metadata.ShortDocumentTitle)
	assert.Equal(t, "1. ОБЩИЕ ПОЛОЖЕНИЯ", first.Metadata.ParentSectionTitle)
	assert.Equal(t, [3]string{"ПРАВИЛА № 5", "1. ОБЩИЕ ПОЛОЖЕНИЯ", "1.1"}, first.Metadata.Hierarchy)
}

func TestProcess_FullDocument(t *testing.T) {
	records := Process(rulesDocument, "")

	assert.Equal(t, []string{"1.1", "1.2.1", "1.2.2", "1.3", "1.3.1", "1.3.2", "2.1", "3.1", "3.2"}, numbers(records))

	assert.Equal(t, "ПРАВИЛА № 32 оказания услуг", records[0].Metadata.SourceDocumentTitle)
	assert.Equal(t, "ПРАВИЛА № 32", records[0].Metadata.ShortDocumentTitle)

	assert.Equal(t, "Клиент — лицо.", byNumber(t, records, "1.2.1").Content)
	assert.Equal(t, "Банк — организация.", byNumber(t, records, "1.2.2").Content)
	assert.Equal(t, "Применяется согласно пункту 1.1.", byNumber(t, records, "1.3").Content)
	assert.Equal(t, "Подпункт второй.", byNumber(t, records, "1.3.2").Content)

	assert.Equal(t, map[string]string{"1.1": "пункту 1.1"}, byNumber(t, records, "1.3").Metadata.CrossReferences)
	assert.Equal(t, map[string]string{"1.3.2": "подпункт 1.3.2"}, byNumber(t, records, "1.3.1").Metadata.CrossReferences)

	assert.Equal(t, "2. ПРАВА СТОРОН", byNumber(t, records, "2.1").Metadata.ParentSectionTitle)
	assert.Equal(t, "3. ЗАКЛЮЧИТЕЛЬНЫЕ ПОЛОЖЕНИЯ", byNumber(t, records, "3.2").Metadata.ParentSectionTitle)
	assert.Equal(t, "Изменения вносятся приказом.", byNumber(t, records, "3.2").Content)
}

func TestProcess_Invariants(t *testing.T) {
	records := Process(rulesDocument, "")
	require.NotEmpty(t, records)

	seen := map[string]bool{}
	for _, r := range records {
		m := r.Metadata
		assert.False(t, seen[m.ClauseNumber], "duplicate clause %s", m.ClauseNumber)
		seen[m.ClauseNumber] = true

		assert.Equal(t, [3]string{m.ShortDocumentTitle, m.ParentSectionTitle, m.ClauseNumber}, m.Hierarchy)
		assert.NotContains(t, m.CrossReferences, m.ClauseNumber)
		assert.NotContains(t, r.Content, "\n")
		assert.NotNil(t, m.CrossReferences)
	}
}

func TestProcess_Deterministic(t *testing.T) {
	assert.Equal(t, Process(rulesDocument, ""), Process(rulesDocument, ""))
}

func TestProcess_UnstructuredText(t *testing.T) {
	assert.Empty(t, Process("", ""))
	assert.Empty(t, Process("Просто абзац текста без нумерации.\nЕщё одна строка.", ""))
}

func TestProcess_PlaceholderTitle(t *testing.T) {
	records := Process("Глава 1. ОБЩЕЕ\n1.1. Текст.", "")
	require.Len(t, records, 1)
	assert.Equal(t, DefaultTitle, records[0].Metadata.SourceDocumentTitle)
	assert.Equal(t, DefaultTitle, records[0].Metadata.Hierarchy[0])
}

func TestProcess_CRLF(t *testing.T) {
	records := Process("Глава 1. ОБЩЕЕ\r\n1.1. Первый.\r\n1.2. Второй.", "")
	assert.Equal(t, []string{"1.1", "1.2"}, numbers(records))
	assert.Equal(t, "Первый.", records[0].Content)
}

func TestSegment_SpecificityPrecedence(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"deeper first", "Глава 3. ТЕХНИКА\n3.5.17. Первый текст.\n3.5. Второй текст.", []string{"3.5.17", "3.5"}},
		{"shallower first", "Глава 3. ТЕХНИКА\n3.5. Второй текст.\n3.5.17. Первый текст.", []string{"3.5", "3.5.17"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext(tt.text, "")
			records := ctx.Segment(tt.text)
			require.Equal(t, tt.want, numbers(records))

			assert.Equal(t, "Первый текст.", byNumber(t, records, "3.5.17").Content)
			assert.Equal(t, "Второй текст.", byNumber(t, records, "3.5").Content)
			assert.True(t, ctx.Claimed("3.5.17"))
			assert.True(t, ctx.Claimed("3.5"))
		})
	}
}

func TestSegment_DuplicateNumberDiscarded(t *testing.T) {
	text := "Глава 1. ОБЩЕЕ\n1.1. Первый.\n1.1. Повтор."
	ctx := NewContext(text, "")
	records := ctx.Segment(text)
	require.Len(t, records, 1)
	assert.Equal(t, "Первый.", records[0].Content)
}

func TestSegment_NestedEnumerationLeftInParent(t *testing.T) {
	text := "Глава 1. ОБЩЕЕ\n1.4. Перечень:\n1. Первое.\n2. Второе.\n1.5. Далее."
	ctx := NewContext(text, "")
	records := ctx.Segment(text)

	assert.Equal(t, []string{"1.4", "1.5"}, numbers(records))
	assert.Equal(t, "Перечень: 1. Первое. 2. Второе.", records[0].Content)
}

func TestSegment_LooseTwoLevel(t *testing.T) {
	text := "Глава 4. ПОРЯДОК\n4.2.Текст без пробела.\n4.3. Обычный пункт."
	ctx := NewContext(text, "")
	records := ctx.Segment(text)

	assert.Equal(t, []string{"4.2", "4.3"}, numbers(records))
	assert.Equal(t, "Текст без пробела.", records[0].Content)
}

func TestSegment_StopsAtHeadings(t *testing.T) {
	text := "Глава 1. ОБЩЕЕ\n1.1. Конец главы.\n# Приложение\nТекст приложения.\nГлава 2. ДАЛЕЕ\n2.1. Начало."
	ctx := NewContext(text, "")
	records := ctx.Segment(text)

	require.Len(t, records, 2)
	assert.Equal(t, "Конец главы.", records[0].Content)
	assert.Equal(t, "Начало.", records[1].Content)
}

func TestSegment_ChapterAttribution(t *testing.T) {
	lines := []string{"Глава 1. ПЕРВАЯ"}
	for len(lines) < 50 {
		lines = append(lines, "текст")
	}
	lines = append(lines, "Глава 2. ВТОРАЯ")
	for len(lines) < 60 {
		lines = append(lines, "текст")
	}
	lines = append(lines, "7.3. Пункт без раздела.")
	text := strings.Join(lines, "\n")

	ctx := NewContext(text, "")
	require.Equal(t, []Boundary{{Chapter: "1", Line: 0}, {Chapter: "2", Line: 50}}, ctx.Chapters)

	records := ctx.Segment(text)
	require.Len(t, records, 1)
	assert.Equal(t, "2.7.3", records[0].Metadata.ClauseNumber)
	assert.Equal(t, "2. ВТОРАЯ", records[0].Metadata.ParentSectionTitle)
}

func TestSegment_SingleLevelUsesChapter(t *testing.T) {
	text := "Глава 5. СРОКИ\n1. Первый абзац.\n2. Второй абзац."
	ctx := NewContext(text, "")
	records := ctx.Segment(text)

	assert.Equal(t, []string{"5.1", "5.2"}, numbers(records))
	assert.Equal(t, "5. СРОКИ", records[0].Metadata.ParentSectionTitle)
}

func TestChapterAt(t *testing.T) {
	bounds := []Boundary{{Chapter: "1", Line: 0}, {Chapter: "2", Line: 50}}
	tests := []struct {
		line int
		want string
	}{
		{0, "1"},
		{49, "1"},
		{50, "2"},
		{60, "2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ChapterAt(bounds, tt.line), "line %d", tt.line)
	}
	assert.Equal(t, "1", ChapterAt(nil, 10))
	assert.Equal(t, "1", ChapterAt([]Boundary{{Chapter: "4", Line: 20}}, 5))
}

func TestProcess_FourLevelSiblings(t *testing.T) {
	records := Process("Глава 1. ОБЩЕЕ\n1.2.3.4. Первый.\n1.2.3.5. Второй.\n1.2.3.6. Третий.", "")

	require.Equal(t, []string{"1.2.3.4", "1.2.3.5", "1.2.3.6"}, numbers(records))
	assert.Equal(t, "Первый.", records[0].Content)
	assert.Equal(t, "Второй.", records[1].Content)
	assert.Equal(t, "Третий.", records[2].Content)
}

func TestProcess_MarkerOnItsOwnLine(t *testing.T) {
	records := Process("Глава 1. ОБЩЕЕ\n1.1.\nПервый пункт.\n1.2. Второй.\n3.\nОтдельный пункт.", "")

	assert.Equal(t, []string{"1.1", "1.2", "1.3"}, numbers(records))
	assert.Equal(t, "Первый пункт.", byNumber(t, records, "1.1").Content)
	assert.Equal(t, "Второй.", byNumber(t, records, "1.2").Content)
	assert.Equal(t, "Отдельный пункт.", byNumber(t, records, "1.3").Content)
}
