package practice

import (
	"strings"

	"github.com/example/fransbot/pkg/models"
)

// AllTenses is the selection value that disables tense filtering
const AllTenses = "all tenses"

// Selection is the learner's verb and tense choice
type Selection struct {
	Lemma  string
	Tenses []string
}

// Equal reports whether two selections filter the same way.
func (s Selection) Equal(other Selection) bool {
	if !sameLemma(s.Lemma, other.Lemma) || len(s.Tenses) != len(other.Tenses) {
		return false
	}
	for i := range s.Tenses {
		if !strings.EqualFold(strings.TrimSpace(s.Tenses[i]), strings.TrimSpace(other.Tenses[i])) {
			return false
		}
	}
	return true
}

// Filter returns the items of lemma whose tense is in tenses, keeping their original order.
// An empty tenses list or one containing AllTenses matches every tense.
func Filter(items []models.Item, lemma string, tenses []string) []models.Item {
	wanted := tenseSet(tenses)

	result := make([]models.Item, 0)
	for _, item := range items {
		if !sameLemma(item.Lemma, lemma) {
			continue
		}
		if wanted != nil {
			if _, ok := wanted[item.Tense]; !ok {
				continue
			}
		}
		result = append(result, item)
	}
	return result
}

// Lemmas returns the distinct lemmas of items in first-seen order.
func Lemmas(items []models.Item) []string {
	seen := make(map[string]bool)
	var lemmas []string
	for _, item := range items {
		key := normalizeLemma(item.Lemma)
		if seen[key] {
			continue
		}
		seen[key] = true
		lemmas = append(lemmas, strings.TrimSpace(item.Lemma))
	}
	return lemmas
}

// Tenses returns the distinct tenses used by lemma in first-seen order.
func Tenses(items []models.Item, lemma string) []string {
	seen := make(map[string]bool)
	var tenses []string
	for _, item := range items {
		if !sameLemma(item.Lemma, lemma) || seen[item.Tense] {
			continue
		}
		seen[item.Tense] = true
		tenses = append(tenses, item.Tense)
	}
	return tenses
}

// tenseSet returns nil when no tense filtering should happen.
func tenseSet(tenses []string) map[string]struct{} {
	if len(tenses) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(tenses))
	for _, t := range tenses {
		if IsAllTenses(t) {
			return nil
		}
		set[t] = struct{}{}
	}
	return set
}

// IsAllTenses reports whether t is the "all tenses" sentinel.
func IsAllTenses(t string) bool {
	return strings.EqualFold(strings.TrimSpace(t), AllTenses)
}

func sameLemma(a, b string) bool {
	return normalizeLemma(a) == normalizeLemma(b)
}

func normalizeLemma(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
