package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"supportpilot/internal/model"
)

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// Upsert stores or refreshes the tokens for a connected account.
func (r *AccountRepository) Upsert(ctx context.Context, email, accessToken, refreshToken string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO gmail_accounts (email, access_token, refresh_token)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token
	`, email, accessToken, refreshToken)
	if err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}
	return nil
}

// List returns all connected accounts.
func (r *AccountRepository) List(ctx context.Context) ([]*model.Account, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, email, access_token, refresh_token, created_at
		FROM gmail_accounts
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Email, &a.AccessToken, &a.RefreshToken, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}

// Delete removes a disconnected account.
func (r *AccountRepository) Delete(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM gmail_accounts WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
