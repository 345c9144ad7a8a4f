package models

import (
	"fmt"
	"strings"
)

// Item is a single fill-in-the-blank conjugation exercise.
// Items are comparable; the full four-field tuple is the identity used for mastery lookup.
type Item struct {
	Sentence string `json:"sentence" db:"sentence"` // Sentence with a blank marker
	Answer   string `json:"answer" db:"answer"`     // Expected conjugated form
	Tense    string `json:"tense" db:"tense"`       // e.g. "présent", "passé composé"
	Lemma    string `json:"lemma" db:"lemma"`       // Infinitive, e.g. "savoir"
}

// ItemKey identifies the mastery record of an item.
type ItemKey = Item

// Key returns the identity of the item.
func (i Item) Key() ItemKey {
	return i
}

// Validate reports the first empty field, if any.
func (i Item) Validate() error {
	switch {
	case strings.TrimSpace(i.Sentence) == "":
		return fmt.Errorf("sentence cannot be empty")
	case strings.TrimSpace(i.Answer) == "":
		return fmt.Errorf("answer cannot be empty")
	case strings.TrimSpace(i.Tense) == "":
		return fmt.Errorf("tense cannot be empty")
	case strings.TrimSpace(i.Lemma) == "":
		return fmt.Errorf("lemma cannot be empty")
	}
	return nil
}
