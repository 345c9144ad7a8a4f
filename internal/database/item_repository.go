package database

import (
	"context"
	"fmt"

	"github.com/example/fransbot/pkg/models"
	"github.com/jmoiron/sqlx"
)

// ItemRepository stores the imported practice set
type ItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository creates a new repository instance
func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// ReplaceAll swaps the stored practice set for items, keeping their order
func (r *ItemRepository) ReplaceAll(ctx context.Context, items []models.Item) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM items"); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(
		"INSERT INTO items (position, sentence, answer, tense, lemma) VALUES (?, ?, ?, ?, ?)"))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range items {
		if _, err := stmt.ExecContext(ctx, i, item.Sentence, item.Answer, item.Tense, item.Lemma); err != nil {
			return fmt.Errorf("failed to insert item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit items: %w", err)
	}
	return nil
}

// GetAll returns all items in import order
func (r *ItemRepository) GetAll(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.db.SelectContext(ctx, &items,
		"SELECT sentence, answer, tense, lemma FROM items ORDER BY position, id")
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	return items, nil
}

// Count returns the number of stored items
func (r *ItemRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM items"); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}
