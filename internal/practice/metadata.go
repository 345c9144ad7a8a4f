package practice

import (
	"github.com/example/fransbot/pkg/models"
)

// MetadataStore holds one mastery record per distinct item.
// Records are created lazily and never removed.
type MetadataStore struct {
	records map[models.ItemKey]*models.Mastery
}

// NewMetadataStore creates an empty store
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{
		records: make(map[models.ItemKey]*models.Mastery),
	}
}

// EnsureMetadata inserts a fresh record for every item not seen before.
func (s *MetadataStore) EnsureMetadata(items []models.Item) {
	for _, item := range items {
		s.Lookup(item)
	}
}

// Lookup returns the record of item, creating it when missing.
func (s *MetadataStore) Lookup(item models.Item) *models.Mastery {
	key := item.Key()
	if m, ok := s.records[key]; ok {
		return m
	}
	m := &models.Mastery{}
	s.records[key] = m
	return m
}

// Get returns a copy of the record of item without creating it.
func (s *MetadataStore) Get(item models.Item) (models.Mastery, bool) {
	m, ok := s.records[item.Key()]
	if !ok {
		return models.Mastery{}, false
	}
	return *m, true
}

// Len returns the number of records
func (s *MetadataStore) Len() int {
	return len(s.records)
}
