package tokencache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ledgerline/warden-client/internal/metrics"
	"github.com/ledgerline/warden-client/pkg/warden"
)

// LoginFunc performs a fresh username/password login and returns the access
// token. (*warden.Client).Login satisfies it.
type LoginFunc func(ctx context.Context, username, password string) (string, error)

// Manager answers "give me a usable token for these credentials": a cached
// token when one is live, a fresh login otherwise. A failed login caches
// nothing, so a caller retry goes straight back to the backend.
type Manager struct {
	logger *zap.Logger
	store  Store
	ttl    time.Duration
	login  LoginFunc
}

// NewManager wires a store to a login function.
func NewManager(logger *zap.Logger, store Store, ttl time.Duration, login LoginFunc) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		logger: logger,
		store:  store,
		ttl:    ttl,
		login:  login,
	}
}

// Token returns a valid access token for creds, from cache or fresh login.
func (m *Manager) Token(ctx context.Context, creds warden.Credentials) (string, error) {
	key := tokenKey(creds.Username)

	// 1. Attempt to reuse a cached token
	entry, err := m.store.Get(ctx, key)
	if err != nil {
		// A broken store must not block authentication.
		m.logger.Warn("tokencache.get_failed",
			zap.String("key", key),
			zap.Error(err))
	}
	if entry != nil && entry.AccessToken != "" {
		metrics.IncTokenCache("hit")
		return entry.AccessToken, nil
	}
	metrics.IncTokenCache("miss")

	// 2. Fall back to login
	token, err := m.login(ctx, creds.Username, creds.Password)
	if err != nil {
		return "", err
	}

	if err := m.store.Put(ctx, key, Entry{AccessToken: token, ObtainedAt: time.Now().UTC()}, m.ttl); err != nil {
		m.logger.Warn("tokencache.put_failed",
			zap.String("key", key),
			zap.Error(err))
	}
	m.logger.Debug("tokencache.token_stored", zap.String("user", creds.Username))
	return token, nil
}

// Invalidate drops the cached token for username, typically after the
// backend has rejected it.
func (m *Manager) Invalidate(ctx context.Context, username string) error {
	return m.store.Delete(ctx, tokenKey(username))
}

// tokenKey namespaces token entries per user.
func tokenKey(username string) string {
	return "warden:token:" + username
}
