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

type RefundAttemptRepository struct {
	db     *pgxpool.Pool
	outbox *outbox.Repository
}

func NewRefundAttemptRepository(db *pgxpool.Pool, ob *outbox.Repository) *RefundAttemptRepository {
	return &RefundAttemptRepository{db: db, outbox: ob}
}

// RecordNotFound appends a not-found refund attempt and returns how many
// prior attempts the same sender made with the same bad reference. No
// escalation is taken on repeats yet; the count is kept queryable for
// future policy.
func (r *RefundAttemptRepository) RecordNotFound(ctx context.Context, msg *model.Message, attemptedRef string) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var prior int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM not_found_refunds
		WHERE sender_email = $1 AND attempted_order_ref = $2
	`, msg.Sender, attemptedRef).Scan(&prior)
	if err != nil {
		return 0, fmt.Errorf("failed to count prior attempts: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO not_found_refunds (message_id, sender_email, subject, body, attempted_order_ref)
		VALUES ($1, $2, $3, $4, $5)
	`, msg.ID, msg.Sender, msg.Subject, msg.Body, attemptedRef)
	if err != nil {
		return 0, fmt.Errorf("failed to insert refund attempt: %w", err)
	}

	event, err := outbox.NewEvent("message", msg.ID, mqcontracts.RoutingKeyRefundNotFound,
		mqcontracts.RefundNotFoundPayload{
			MessageID:     msg.ID,
			AttemptedRef:  attemptedRef,
			Sender:        msg.Sender,
			PriorAttempts: prior,
			TraceID:       trace.FromContext(ctx),
			Timestamp:     time.Now(),
		})
	if err != nil {
		return 0, err
	}
	if err := r.outbox.InsertEvent(ctx, tx, event); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit refund attempt: %w", err)
	}
	return prior, nil
}

// CountAttempts returns how many attempts a sender has made with a given
// reference.
func (r *RefundAttemptRepository) CountAttempts(ctx context.Context, sender, attemptedRef string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM not_found_refunds
		WHERE sender_email = $1 AND attempted_order_ref = $2
	`, sender, attemptedRef).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count attempts: %w", err)
	}
	return n, nil
}

// List returns the most recent not-found refund attempts.
func (r *RefundAttemptRepository) List(ctx context.Context, limit int) ([]*model.NotFoundRefundAttempt, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, message_id, sender_email, subject, body, attempted_order_ref, created_at
		FROM not_found_refunds
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list refund attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*model.NotFoundRefundAttempt
	for rows.Next() {
		var a model.NotFoundRefundAttempt
		err := rows.Scan(&a.ID, &a.MessageID, &a.Sender, &a.Subject,
			&a.Body, &a.AttemptedRef, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan refund attempt: %w", err)
		}
		attempts = append(attempts, &a)
	}
	return attempts, rows.Err()
}
