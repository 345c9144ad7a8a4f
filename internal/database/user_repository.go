package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/fransbot/pkg/models"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, telegram_id, username, lemma, tenses, notification_enabled,
	notification_hour, last_active, created_at, updated_at`

// UserRepository handles database operations for users
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByTelegramID returns a user by Telegram ID, or nil when unknown
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		r.db.Rebind("SELECT "+userColumns+" FROM users WHERE telegram_id = ?"), telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetOrCreate returns the user with telegramID, creating it on first contact
func (r *UserRepository) GetOrCreate(ctx context.Context, telegramID int64, username string) (*models.User, error) {
	user, err := r.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	var id int64
	err = r.db.QueryRowxContext(ctx,
		r.db.Rebind("INSERT INTO users (telegram_id, username) VALUES (?, ?) RETURNING id"),
		telegramID, username).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return r.GetByTelegramID(ctx, telegramID)
}

// UpdateSelection stores the last verb and tense selection of a user
func (r *UserRepository) UpdateSelection(ctx context.Context, userID int64, lemma, tenses string) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE users SET lemma = ?, tenses = ?, updated_at = ? WHERE id = ?"),
		lemma, tenses, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update selection: %w", err)
	}
	return nil
}

// SetNotifications updates the reminder settings of a user
func (r *UserRepository) SetNotifications(ctx context.Context, userID int64, enabled bool, hour int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("notification hour %d out of range", hour)
	}
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE users SET notification_enabled = ?, notification_hour = ?, updated_at = ? WHERE id = ?"),
		enabled, hour, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update notifications: %w", err)
	}
	return nil
}

// Touch records that the user practised at t
func (r *UserRepository) Touch(ctx context.Context, userID int64, t time.Time) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE users SET last_active = ? WHERE id = ?"), t, userID)
	if err != nil {
		return fmt.Errorf("failed to update last active: %w", err)
	}
	return nil
}

// GetUsersForNotification returns users who want a reminder at hour and have not practised since dayStart
func (r *UserRepository) GetUsersForNotification(ctx context.Context, hour int, dayStart time.Time) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users,
		r.db.Rebind("SELECT "+userColumns+" FROM users WHERE notification_enabled = ? AND notification_hour = ?"),
		true, hour)
	if err != nil {
		return nil, fmt.Errorf("failed to get users for notification: %w", err)
	}

	due := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.LastActive != nil && !u.LastActive.Before(dayStart) {
			continue
		}
		due = append(due, u)
	}
	return due, nil
}
