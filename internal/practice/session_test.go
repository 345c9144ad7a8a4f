package practice

import (
	"testing"
	"time"

	"github.com/example/fransbot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureMetadata(t *testing.T) {
	store := NewMetadataStore()
	input := []models.Item{sais, etait, sais}

	store.EnsureMetadata(input)
	assert.Equal(t, 2, store.Len(), "identical items share a record")

	m, ok := store.Get(sais)
	require.True(t, ok)
	assert.Equal(t, models.Mastery{}, m)
	assert.False(t, m.Practiced())

	store.Lookup(sais).ErrorCount = 3
	store.EnsureMetadata(input)
	m, _ = store.Get(sais)
	assert.Equal(t, 3, m.ErrorCount, "existing records are left alone")
	assert.Equal(t, []models.Item{sais, etait, sais}, input)
}

func TestMetadataGetDoesNotCreate(t *testing.T) {
	store := NewMetadataStore()
	_, ok := store.Get(sais)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestNewSession(t *testing.T) {
	s := NewSession()
	assert.NotEmpty(t, s.ID)
	_, ok := s.Current()
	assert.False(t, ok)
	assert.Equal(t, Totals{}, s.Totals())
	assert.Empty(t, s.Log())
	assert.Empty(t, s.Active())
}

func TestSessionSetSelection(t *testing.T) {
	s := NewSession()

	changed := s.SetSelection(testItems, Selection{Lemma: "savoir", Tenses: []string{AllTenses}})
	assert.True(t, changed)
	assert.Equal(t, []models.Item{sais, savais, saurons}, s.Active())
	for _, item := range s.Active() {
		_, ok := s.Metadata.Get(item)
		assert.True(t, ok, "metadata for %v", item)
	}

	s.SetCurrent(savais)
	changed = s.SetSelection(testItems, Selection{Lemma: "savoir"})
	assert.False(t, changed, "same active set")
	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, savais, current)

	changed = s.SetSelection(testItems, Selection{Lemma: "savoir", Tenses: []string{"présent"}})
	assert.True(t, changed)
	_, ok = s.Current()
	assert.False(t, ok, "current item cleared when the active set changes")
}

func TestSessionKeepsMetadataOutsideFilter(t *testing.T) {
	s := NewSession()
	s.SetSelection(testItems, Selection{Lemma: "être"})
	s.Metadata.Lookup(etait).ErrorCount = 2

	s.SetSelection(testItems, Selection{Lemma: "savoir"})
	m, ok := s.Metadata.Get(etait)
	require.True(t, ok)
	assert.Equal(t, 2, m.ErrorCount)
}

func TestSessionEmptySelection(t *testing.T) {
	s := NewSession()
	s.SetSelection(testItems, Selection{Lemma: "aller"})
	assert.Empty(t, s.Active())
	assert.False(t, s.Contains(sais))
}

func TestSessionReset(t *testing.T) {
	s := NewSession()
	s.SetSelection(testItems, Selection{Lemma: "savoir"})
	s.SetCurrent(sais)
	s.Metadata.Lookup(sais).ErrorCount = 1

	s.AddAttempt(models.Attempt{Item: sais, Correct: true, Timestamp: time.Now()})
	s.AddAttempt(models.Attempt{Item: sais, Correct: false, Timestamp: time.Now()})
	assert.Equal(t, Totals{Correct: 1, Total: 2}, s.Totals())
	require.Len(t, s.Log(), 2)
	assert.Equal(t, s.ID, s.Log()[0].SessionID)

	s.Reset()
	assert.Equal(t, Totals{}, s.Totals())
	assert.Empty(t, s.Log())

	m, _ := s.Metadata.Get(sais)
	assert.Equal(t, 1, m.ErrorCount)
	current, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, sais, current)
}

func TestSessionLogIsACopy(t *testing.T) {
	s := NewSession()
	s.AddAttempt(models.Attempt{Item: sais, Correct: true})
	log := s.Log()
	log[0].Correct = false
	assert.True(t, s.Log()[0].Correct)
}
