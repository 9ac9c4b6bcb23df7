package clause

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "rules with continuation",
			text: "ПРАВИЛА № 32\nоказания услуг\nсвязи\n(с изменениями)\nГлава 1. ОБЩЕЕ",
			want: "ПРАВИЛА № 32 оказания услуг связи",
		},
		{
			name: "case insensitive, stops at chapter",
			text: "Правила № 7\nГлава 1. ОБЩЕЕ",
			want: "Правила № 7",
		},
		{
			name: "skips short lines",
			text: "ПРАВИЛА № 3\n\nо порядке\nСогласованы советом",
			want: "ПРАВИЛА № 3 о порядке",
		},
		{
			name: "keyword fallback",
			text: "Вводный текст\n# Заголовок\nПОЛОЖЕНИЕ о порядке",
			want: "ПОЛОЖЕНИЕ о порядке",
		},
		{
			name: "nothing found",
			text: "просто текст",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle(tt.text))
		})
	}
}

func TestShortTitle(t *testing.T) {
	assert.Equal(t, "ПРАВИЛА № 32", ShortTitle("ПРАВИЛА № 32 оказания услуг"))
	assert.Equal(t, "Правила № 7", ShortTitle("Правила № 7"))

	long := strings.Repeat("а", 60)
	assert.Equal(t, strings.Repeat("а", 50)+"...", ShortTitle(long))
	assert.Equal(t, "", ShortTitle(""))
}

func TestResolveTitles_SuppliedWins(t *testing.T) {
	titles := ResolveTitles("ПРАВИЛА № 1\nГлава 1. ОБЩЕЕ", "ПРАВИЛА № 5")
	assert.Equal(t, Titles{Full: "ПРАВИЛА № 5", Short: "ПРАВИЛА № 5"}, titles)
}

func TestResolveTitles_SuppliedVerbatim(t *testing.T) {
	titles := ResolveTitles("ПРАВИЛА № 1\nГлава 1. ОБЩЕЕ", "  ПРАВИЛА № 5 ")
	assert.Equal(t, "  ПРАВИЛА № 5 ", titles.Full)
	assert.Equal(t, "ПРАВИЛА № 5", titles.Short)

	blank := ResolveTitles("ПРАВИЛА № 1\nГлава 1. ОБЩЕЕ", "   ")
	assert.Equal(t, "ПРАВИЛА № 1", blank.Full)
}
