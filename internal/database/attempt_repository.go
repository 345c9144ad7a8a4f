package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/fransbot/pkg/models"
	"github.com/jmoiron/sqlx"
)

// AttemptRepository archives the attempt log for the progress view
type AttemptRepository struct {
	db *sqlx.DB
}

// NewAttemptRepository creates a new repository instance
func NewAttemptRepository(db *sqlx.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

type attemptRow struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	SessionID   string    `db:"session_id"`
	Sentence    string    `db:"sentence"`
	Answer      string    `db:"answer"`
	Tense       string    `db:"tense"`
	Lemma       string    `db:"lemma"`
	Given       string    `db:"given"`
	Correct     bool      `db:"correct"`
	AttemptedAt time.Time `db:"attempted_at"`
}

func (row attemptRow) toModel() models.Attempt {
	return models.Attempt{
		ID:        row.ID,
		UserID:    row.UserID,
		SessionID: row.SessionID,
		Item: models.Item{
			Sentence: row.Sentence,
			Answer:   row.Answer,
			Tense:    row.Tense,
			Lemma:    row.Lemma,
		},
		Given:     row.Given,
		Correct:   row.Correct,
		Timestamp: row.AttemptedAt,
	}
}

// Append inserts an attempt and fills in its ID
func (r *AttemptRepository) Append(ctx context.Context, attempt *models.Attempt) error {
	query := r.db.Rebind(`
		INSERT INTO attempts (
			user_id, session_id, sentence, answer, tense, lemma, given, correct, attempted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := r.db.QueryRowxContext(ctx, query,
		attempt.UserID,
		attempt.SessionID,
		attempt.Item.Sentence,
		attempt.Item.Answer,
		attempt.Item.Tense,
		attempt.Item.Lemma,
		attempt.Given,
		attempt.Correct,
		attempt.Timestamp,
	).Scan(&attempt.ID)
	if err != nil {
		return fmt.Errorf("failed to append attempt: %w", err)
	}
	return nil
}

// ListByUser returns all attempts of a user, oldest first
func (r *AttemptRepository) ListByUser(ctx context.Context, userID int64) ([]models.Attempt, error) {
	var rows []attemptRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT id, user_id, session_id, sentence, answer, tense, lemma, given, correct, attempted_at
		FROM attempts
		WHERE user_id = ?
		ORDER BY attempted_at, id
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}

	attempts := make([]models.Attempt, 0, len(rows))
	for _, row := range rows {
		attempts = append(attempts, row.toModel())
	}
	return attempts, nil
}

// DeleteByUser removes the archived attempts of a user
func (r *AttemptRepository) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM attempts WHERE user_id = ?"), userID)
	if err != nil {
		return fmt.Errorf("failed to delete attempts: %w", err)
	}
	return nil
}
