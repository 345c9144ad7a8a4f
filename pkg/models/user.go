package models

import "time"

// User represents a Telegram user drilling conjugations
type User struct {
	ID                  int64      `json:"id" db:"id"`
	TelegramID          int64      `json:"telegram_id" db:"telegram_id"`
	Username            string     `json:"username" db:"username"`
	Lemma               string     `json:"lemma" db:"lemma"`                               // Last selected verb
	Tenses              string     `json:"tenses" db:"tenses"`                             // Comma separated tense selection
	NotificationEnabled bool       `json:"notification_enabled" db:"notification_enabled"`
	NotificationHour    int        `json:"notification_hour" db:"notification_hour"` // Hour of day for reminders (0-23)
	LastActive          *time.Time `json:"last_active" db:"last_active"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}
