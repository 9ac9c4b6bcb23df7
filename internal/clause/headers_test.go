package clause

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexHeaders(t *testing.T) {
	text := "Глава 1. ОБЩИЕ ПОЛОЖЕНИЯ\n# 2. Права сторон\n3. ОТВЕТСТВЕННОСТЬ СТОРОН\n4. Обычный текст пункта\n5. 2020"

	assert.Equal(t, HeaderMap{
		"1": "1. ОБЩИЕ ПОЛОЖЕНИЯ",
		"2": "2. Права сторон",
		"3": "3. ОТВЕТСТВЕННОСТЬ СТОРОН",
	}, IndexHeaders(text))
}

func TestIndexHeaders_LaterScanWins(t *testing.T) {
	headers := IndexHeaders("Глава 2. Старое\n2. НОВОЕ НАЗВАНИЕ")
	assert.Equal(t, "2. НОВОЕ НАЗВАНИЕ", headers["2"])
}

func TestHeaderMap_TitleDefault(t *testing.T) {
	h := HeaderMap{"1": "1. ОБЩЕЕ"}
	assert.Equal(t, "1. ОБЩЕЕ", h.Title("1"))
	assert.Equal(t, "7. Раздел 7", h.Title("7"))
}

func TestIndexChapters(t *testing.T) {
	text := strings.Join([]string{
		"Вступление",
		"Глава 1. ОБЩЕЕ",
		"1.1. Текст.",
		"## Глава 2. ДАЛЕЕ",
		"Глава без номера",
	}, "\n")

	assert.Equal(t, []Boundary{{Chapter: "1", Line: 1}, {Chapter: "2", Line: 3}}, IndexChapters(text))
}
