package spaced_repetition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckAnswer(t *testing.T) {
	tests := []struct {
		name  string
		mode  Normalization
		given string
		item  string
		want  bool
	}{
		{"exact", NormalizeTrim, "sais", "sais", true},
		{"trailing space and capital", NormalizeTrim, "Sais ", "sais", true},
		{"accented capitals", NormalizeTrim, "ÉTAIT", "était", true},
		{"missing accent", NormalizeTrim, "etait", "était", false},
		{"internal space kept", NormalizeTrim, "avu", "a vu", false},
		{"extra internal space kept", NormalizeTrim, "a  vu", "a vu", false},
		{"strict joins words", NormalizeStrict, "avu", "a vu", true},
		{"strict tabs", NormalizeStrict, " A\tVU ", "a vu", true},
		{"strict still compares letters", NormalizeStrict, "a eu", "a vu", false},
		{"empty answer", NormalizeTrim, "   ", "sais", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScheduler(Config{Normalization: tt.mode})
			item := sais
			item.Answer = tt.item
			assert.Equal(t, tt.want, s.CheckAnswer(tt.given, item))
		})
	}
}

func TestParseNormalization(t *testing.T) {
	assert.Equal(t, NormalizeStrict, ParseNormalization("strict"))
	assert.Equal(t, NormalizeStrict, ParseNormalization(" TRUE "))
	assert.Equal(t, NormalizeTrim, ParseNormalization(""))
	assert.Equal(t, NormalizeTrim, ParseNormalization("trim"))
	assert.Equal(t, "strict", NormalizeStrict.String())
	assert.Equal(t, "trim", NormalizeTrim.String())
}
