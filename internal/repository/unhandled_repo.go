package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	mqcontracts "supportpilot/contracts/mq"
	"supportpilot/internal/model"
	"supportpilot/pkg/outbox"
	"supportpilot/pkg/trace"
)

type UnhandledRepository struct {
	db     *pgxpool.Pool
	outbox *outbox.Repository
}

func NewUnhandledRepository(db *pgxpool.Pool, ob *outbox.Repository) *UnhandledRepository {
	return &UnhandledRepository{db: db, outbox: ob}
}

// Insert appends an unhandled-message audit row and its event in one
// transaction.
func (r *UnhandledRepository) Insert(ctx context.Context, rec *model.UnhandledRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO unhandled_messages (message_id, sender_email, subject, body, category, importance)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, rec.MessageID, rec.Sender, rec.Subject, rec.Body, string(rec.Category), string(rec.Importance)).
		Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert unhandled record: %w", err)
	}

	event, err := outbox.NewEvent("message", rec.MessageID, mqcontracts.RoutingKeyUnhandled,
		mqcontracts.UnhandledPayload{
			MessageID:  rec.MessageID,
			Sender:     rec.Sender,
			Subject:    rec.Subject,
			Category:   string(rec.Category),
			Importance: string(rec.Importance),
			TraceID:    trace.FromContext(ctx),
			Timestamp:  time.Now(),
		})
	if err != nil {
		return err
	}
	if err := r.outbox.InsertEvent(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// List returns the most recent unhandled records.
func (r *UnhandledRepository) List(ctx context.Context, limit int) ([]*model.UnhandledRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, message_id, sender_email, subject, body, category, importance, created_at
		FROM unhandled_messages
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unhandled records: %w", err)
	}
	defer rows.Close()

	var records []*model.UnhandledRecord
	for rows.Next() {
		var rec model.UnhandledRecord
		var category, importance string
		err := rows.Scan(&rec.ID, &rec.MessageID, &rec.Sender, &rec.Subject,
			&rec.Body, &category, &importance, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unhandled record: %w", err)
		}
		rec.Category = model.Category(category)
		rec.Importance = model.Importance(importance)
		records = append(records, &rec)
	}
	return records, rows.Err()
}
