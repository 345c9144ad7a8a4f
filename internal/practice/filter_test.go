package practice

import (
	"testing"

	"github.com/example/fransbot/pkg/models"
	"github.com/stretchr/testify/assert"
)

var (
	sais      = models.Item{Sentence: "Je ___ la réponse.", Answer: "sais", Tense: "présent", Lemma: "savoir"}
	etait     = models.Item{Sentence: "Il ___ fatigué.", Answer: "était", Tense: "imparfait", Lemma: "être"}
	savais    = models.Item{Sentence: "Tu ___ tout.", Answer: "savais", Tense: "imparfait", Lemma: "savoir"}
	saurons   = models.Item{Sentence: "Nous ___ demain.", Answer: "saurons", Tense: "futur simple", Lemma: "savoir"}
	testItems = []models.Item{sais, etait, savais, saurons}
)

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		lemma  string
		tenses []string
		want   []models.Item
	}{
		{"all tenses sentinel", "savoir", []string{AllTenses}, []models.Item{sais, savais, saurons}},
		{"no tenses", "savoir", nil, []models.Item{sais, savais, saurons}},
		{"sentinel mixed with tenses", "savoir", []string{"présent", "All Tenses"}, []models.Item{sais, savais, saurons}},
		{"single tense", "savoir", []string{"imparfait"}, []models.Item{savais}},
		{"two tenses keep order", "savoir", []string{"futur simple", "présent"}, []models.Item{sais, saurons}},
		{"lemma case and whitespace", "  SAVOIR ", []string{"présent"}, []models.Item{sais}},
		{"unknown tense", "être", []string{"présent"}, []models.Item{}},
		{"unknown lemma", "aller", nil, []models.Item{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(testItems, tt.lemma, tt.tenses)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterScenario(t *testing.T) {
	items := []models.Item{sais, etait}
	got := Filter(items, "savoir", []string{AllTenses})
	assert.Equal(t, []models.Item{sais}, got)
}

func TestFilterIsIdempotent(t *testing.T) {
	selections := []Selection{
		{Lemma: "savoir", Tenses: []string{AllTenses}},
		{Lemma: "savoir", Tenses: []string{"imparfait"}},
		{Lemma: "être"},
		{Lemma: "nothing"},
	}
	for _, sel := range selections {
		once := Filter(testItems, sel.Lemma, sel.Tenses)
		twice := Filter(once, sel.Lemma, sel.Tenses)
		assert.Equal(t, once, twice, "selection %+v", sel)
	}
}

func TestFilterDoesNotModifyInput(t *testing.T) {
	input := append([]models.Item(nil), testItems...)
	Filter(input, "savoir", []string{"présent"})
	assert.Equal(t, testItems, input)
}

func TestLemmasAndTenses(t *testing.T) {
	assert.Equal(t, []string{"savoir", "être"}, Lemmas(testItems))
	assert.Equal(t, []string{"présent", "imparfait", "futur simple"}, Tenses(testItems, "Savoir"))
	assert.Empty(t, Tenses(testItems, "aller"))
}

func TestSelectionEqual(t *testing.T) {
	a := Selection{Lemma: "savoir", Tenses: []string{"présent"}}
	assert.True(t, a.Equal(Selection{Lemma: " Savoir", Tenses: []string{"Présent"}}))
	assert.False(t, a.Equal(Selection{Lemma: "savoir"}))
	assert.False(t, a.Equal(Selection{Lemma: "être", Tenses: []string{"présent"}}))
}
