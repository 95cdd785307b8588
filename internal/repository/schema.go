package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		order_ref VARCHAR(255) UNIQUE NOT NULL,
		customer_email VARCHAR(255) NOT NULL,
		amount DECIMAL(10, 2),
		status VARCHAR(50) DEFAULT 'completed',
		refund_requested BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMPTZ DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS processed_messages (
		id BIGSERIAL PRIMARY KEY,
		message_id VARCHAR(255) UNIQUE NOT NULL,
		processed_at TIMESTAMPTZ DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS unhandled_messages (
		id BIGSERIAL PRIMARY KEY,
		message_id VARCHAR(255) NOT NULL,
		sender_email VARCHAR(255) NOT NULL,
		subject VARCHAR(500),
		body TEXT,
		category VARCHAR(50),
		importance VARCHAR(20),
		created_at TIMESTAMPTZ DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS not_found_refunds (
		id BIGSERIAL PRIMARY KEY,
		message_id VARCHAR(255) NOT NULL,
		sender_email VARCHAR(255) NOT NULL,
		subject VARCHAR(500),
		body TEXT,
		attempted_order_ref VARCHAR(255),
		created_at TIMESTAMPTZ DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS not_found_refunds_sender_ref_idx
		ON not_found_refunds (sender_email, attempted_order_ref)`,
	`CREATE TABLE IF NOT EXISTS gmail_accounts (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		access_token TEXT,
		refresh_token TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id BIGSERIAL PRIMARY KEY,
		aggregate_type VARCHAR(100) NOT NULL,
		aggregate_id VARCHAR(255),
		routing_key VARCHAR(255) NOT NULL,
		payload JSONB NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		retry_count INT NOT NULL DEFAULT 0,
		next_retry_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS outbox_events_pending_idx
		ON outbox_events (status, created_at)`,
}

// sampleOrders mirrors the seed data used in development environments.
var sampleOrders = []struct {
	Ref    string
	Email  string
	Amount float64
}{
	{"ORD001", "customer1@example.com", 99.99},
	{"ORD002", "customer2@example.com", 149.50},
	{"ORD003", "customer3@example.com", 75.00},
}

// EnsureSchema creates the triage tables if they do not exist and seeds
// the sample orders. Idempotent; safe to run on every startup.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	for _, o := range sampleOrders {
		_, err := db.Exec(ctx, `
			INSERT INTO orders (order_ref, customer_email, amount)
			VALUES ($1, $2, $3)
			ON CONFLICT (order_ref) DO NOTHING
		`, o.Ref, o.Email, o.Amount)
		if err != nil {
			return fmt.Errorf("failed to seed order %s: %w", o.Ref, err)
		}
	}

	logger.Info("Database schema ready")
	return nil
}
