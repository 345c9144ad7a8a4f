package models

import "time"

// Attempt is one entry of the append-only attempt log
type Attempt struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	SessionID string    `json:"session_id" db:"session_id"`
	Item      Item      `json:"item"`
	Given     string    `json:"given" db:"given"`
	Correct   bool      `json:"correct" db:"correct"`
	Timestamp time.Time `json:"timestamp" db:"attempted_at"`
}
