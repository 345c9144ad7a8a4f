package practice

import (
	"github.com/example/fransbot/pkg/models"
	"github.com/google/uuid"
)

// Totals is the running score of a session
type Totals struct {
	Correct int
	Total   int
}

// Session is the state owned by one learner for the lifetime of a drill.
type Session struct {
	ID        string
	Metadata  *MetadataStore
	selection Selection
	active    []models.Item
	current   *models.Item
	totals    Totals
	log       []models.Attempt
}

// NewSession returns a fresh session with no selection, no current item and an empty log.
func NewSession() *Session {
	return &Session{
		ID:       uuid.NewString(),
		Metadata: NewMetadataStore(),
	}
}

// SetSelection filters all with sel and makes the result the active set.
// The current item is dropped when the active set changed or no longer contains it.
// It returns whether the active set changed.
func (s *Session) SetSelection(all []models.Item, sel Selection) bool {
	active := Filter(all, sel.Lemma, sel.Tenses)
	s.Metadata.EnsureMetadata(active)

	changed := !sameItems(s.active, active)
	s.selection = sel
	s.active = active

	if changed || (s.current != nil && !s.Contains(*s.current)) {
		s.current = nil
	}
	return changed
}

// Selection returns the filter the active set was built from.
func (s *Session) Selection() Selection {
	return s.selection
}

// Active returns the active set. Callers must not modify it.
func (s *Session) Active() []models.Item {
	return s.active
}

// Contains reports whether item is in the active set.
func (s *Session) Contains(item models.Item) bool {
	for _, it := range s.active {
		if it == item {
			return true
		}
	}
	return false
}

// Current returns the displayed item, if any.
func (s *Session) Current() (models.Item, bool) {
	if s.current == nil {
		return models.Item{}, false
	}
	return *s.current, true
}

// SetCurrent replaces the displayed item.
func (s *Session) SetCurrent(item models.Item) {
	s.current = &item
}

// ClearCurrent forgets the displayed item.
func (s *Session) ClearCurrent() {
	s.current = nil
}

// Totals returns the running score
func (s *Session) Totals() Totals {
	return s.totals
}

// AddAttempt appends to the attempt log and updates the running score.
func (s *Session) AddAttempt(a models.Attempt) {
	if a.SessionID == "" {
		a.SessionID = s.ID
	}
	s.log = append(s.log, a)
	s.totals.Total++
	if a.Correct {
		s.totals.Correct++
	}
}

// Log returns a copy of the attempt log.
func (s *Session) Log() []models.Attempt {
	out := make([]models.Attempt, len(s.log))
	copy(out, s.log)
	return out
}

// Reset zeroes the score and clears the attempt log.
// Mastery records and the current item survive a reset.
func (s *Session) Reset() {
	s.totals = Totals{}
	s.log = nil
}

func sameItems(a, b []models.Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
