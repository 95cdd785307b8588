package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ProcessedRepository struct {
	db *pgxpool.Pool
}

func NewProcessedRepository(db *pgxpool.Pool) *ProcessedRepository {
	return &ProcessedRepository{db: db}
}

// MarkProcessed records a message ID as fetched. Returns true only for
// the first call for a given ID; re-fetches across poll cycles hit the
// unique constraint and return false.
func (r *ProcessedRepository) MarkProcessed(ctx context.Context, messageID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO processed_messages (message_id)
		VALUES ($1)
		ON CONFLICT (message_id) DO NOTHING
	`, messageID)
	if err != nil {
		return false, fmt.Errorf("failed to mark message processed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Count returns the number of processed markers, for the admin surface.
func (r *ProcessedRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM processed_messages`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count processed messages: %w", err)
	}
	return n, nil
}
