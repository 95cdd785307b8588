package mailer

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"supportpilot/internal/config"
	"supportpilot/internal/model"
	"supportpilot/internal/repository"
)

// Provider is one connected account's view of the mail collaborator.
type Provider interface {
	ListUnseen(ctx context.Context) ([]*model.Message, error)
	SendReply(ctx context.Context, to, subject, body string) error
}

// Registry maps connected accounts to their providers. It is an explicit
// dependency owned by the host process; connect/disconnect mutate it
// under a lock and the poll loop iterates over a snapshot.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]Provider
	logger  *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		clients: make(map[string]Provider),
		logger:  logger,
	}
}

// Connect registers a provider for an account, replacing any previous one.
func (r *Registry) Connect(account string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[account] = p
	r.logger.Info("Mail account connected", zap.String("account", account))
}

// Disconnect removes an account's provider.
func (r *Registry) Disconnect(account string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, account)
	r.logger.Info("Mail account disconnected", zap.String("account", account))
}

// Get returns the provider for an account.
func (r *Registry) Get(account string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.clients[account]
	return p, ok
}

// Accounts returns a snapshot of connected account names.
func (r *Registry) Accounts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	accounts := make([]string, 0, len(r.clients))
	for account := range r.clients {
		accounts = append(accounts, account)
	}
	return accounts
}

// ListUnseen fetches unread messages for one connected account.
func (r *Registry) ListUnseen(ctx context.Context, account string) ([]*model.Message, error) {
	p, ok := r.Get(account)
	if !ok {
		return nil, fmt.Errorf("account %s not connected", account)
	}
	return p.ListUnseen(ctx)
}

// SendReply delivers a reply through the account the message arrived on.
func (r *Registry) SendReply(ctx context.Context, account, to, subject, body string) error {
	p, ok := r.Get(account)
	if !ok {
		return fmt.Errorf("account %s not connected", account)
	}
	return p.SendReply(ctx, to, subject, body)
}

// OAuthConfig builds the oauth2 config used to refresh stored tokens.
func OAuthConfig(cfg config.GmailConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes: []string{
			"https://www.googleapis.com/auth/gmail.readonly",
			"https://www.googleapis.com/auth/gmail.send",
			"https://www.googleapis.com/auth/gmail.modify",
		},
	}
}

// LoadAccounts builds clients for every stored account. A failure to
// load one account is logged and skipped so the rest still connect.
func (r *Registry) LoadAccounts(ctx context.Context, accounts *repository.AccountRepository, oauthCfg *oauth2.Config) error {
	stored, err := accounts.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	for _, a := range stored {
		token := &oauth2.Token{
			AccessToken:  a.AccessToken,
			RefreshToken: a.RefreshToken,
		}
		client, err := NewGmailClient(ctx, oauthCfg, token, a.Email)
		if err != nil {
			r.logger.Error("Failed to load mail account",
				zap.String("account", a.Email),
				zap.Error(err),
			)
			continue
		}
		r.Connect(a.Email, client)
	}

	return nil
}
