package models

import "time"

// Mastery tracks how well the learner knows a single item during a session
type Mastery struct {
	ErrorCount    int       `json:"error_count"`    // Never negative
	LastPracticed time.Time `json:"last_practiced"` // Zero value means never practiced
}

// Practiced reports whether the item has been attempted at least once.
func (m Mastery) Practiced() bool {
	return !m.LastPracticed.IsZero()
}
