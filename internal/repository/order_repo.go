package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	mqcontracts "supportpilot/contracts/mq"
	"supportpilot/internal/model"
	"supportpilot/pkg/outbox"
	"supportpilot/pkg/trace"
)

type OrderRepository struct {
	db     *pgxpool.Pool
	outbox *outbox.Repository
}

func NewOrderRepository(db *pgxpool.Pool, ob *outbox.Repository) *OrderRepository {
	return &OrderRepository{db: db, outbox: ob}
}

// FindByReference looks up an order by its customer-facing reference.
func (r *OrderRepository) FindByReference(ctx context.Context, ref string) (*model.Order, bool, error) {
	query := `
		SELECT id, order_ref, customer_email, amount, status, refund_requested, created_at
		FROM orders
		WHERE order_ref = $1
	`

	var o model.Order
	err := r.db.QueryRow(ctx, query, ref).Scan(
		&o.ID,
		&o.OrderRef,
		&o.CustomerEmail,
		&o.Amount,
		&o.Status,
		&o.RefundRequested,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to find order: %w", err)
	}
	return &o, true, nil
}

// ApproveRefund flips refund_requested on the order and records the
// approval event, both in one transaction. Setting the flag again is a
// no-op in effect; it never resets.
func (r *OrderRepository) ApproveRefund(ctx context.Context, ref string, msg *model.Message) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE orders SET refund_requested = TRUE WHERE order_ref = $1
	`, ref)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s disappeared during refund approval", ref)
	}

	event, err := outbox.NewEvent("order", ref, mqcontracts.RoutingKeyRefundApproved,
		mqcontracts.RefundApprovedPayload{
			MessageID: msg.ID,
			OrderRef:  ref,
			Sender:    msg.Sender,
			Account:   msg.Account,
			TraceID:   trace.FromContext(ctx),
			Timestamp: time.Now(),
		})
	if err != nil {
		return err
	}
	if err := r.outbox.InsertEvent(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
