package secrets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ledgerline/warden-client/internal/metrics"
	pkgsecrets "github.com/ledgerline/warden-client/pkg/secrets"
	"github.com/ledgerline/warden-client/pkg/warden"
)

// serviceSegment is the fixed trailing segment of every warden secret name.
const serviceSegment = "warden"

// Resolver resolves service-account credentials from a secrets Provider,
// caching results locally to reduce API calls. It serves callers (wardenctl,
// batch jobs) that authenticate as managed accounts instead of humans typing
// passwords.
//
// Secret naming convention: {env}/{account}/warden
// Secret payload:           {"username": "...", "password": "..."}
type Resolver struct {
	logger   *zap.Logger
	env      string
	provider pkgsecrets.Provider
	cache    *pkgsecrets.Cache[warden.Credentials]
}

// NewResolver constructs a credentials resolver for one environment.
func NewResolver(
	logger *zap.Logger,
	env string,
	provider pkgsecrets.Provider,
	cache *pkgsecrets.Cache[warden.Credentials],
) *Resolver {
	return &Resolver{
		logger:   logger,
		env:      env,
		provider: provider,
		cache:    cache,
	}
}

// cacheKey builds the in-memory cache key for an account.
func (r *Resolver) cacheKey(account string) string {
	return strings.ToLower(account)
}

// secretName builds the Secrets Manager key for an account.
// Pattern: {env}/{account}/warden
func (r *Resolver) secretName(account string) string {
	return strings.ToLower(fmt.Sprintf("%s/%s/%s", r.env, account, serviceSegment))
}

// Resolve fetches or caches the credentials for a given account.
func (r *Resolver) Resolve(ctx context.Context, account string) (warden.Credentials, error) {
	key := r.cacheKey(account)

	// --- check in-memory cache first ---
	if creds, ok := r.cache.Get(key); ok {
		metrics.IncCredentialsCache("hit")
		return creds, nil
	}
	metrics.IncCredentialsCache("miss")

	// --- fetch from the secrets backend ---
	secretName := r.secretName(account)
	secretMap, err := r.provider.GetSecret(ctx, secretName)
	if err != nil {
		r.logger.Warn("secrets.fetch_failed",
			zap.String("key", secretName),
			zap.Error(err))
		return warden.Credentials{}, fmt.Errorf("resolve credentials for %q: %w", account, err)
	}

	creds, err := parseCredentials(secretMap)
	if err != nil {
		return warden.Credentials{}, fmt.Errorf("parse secret %q: %w", secretName, err)
	}

	// --- cache locally for next time ---
	r.cache.Put(key, creds)

	r.logger.Info("secrets.credentials_resolved",
		zap.String("account", account),
	)
	return creds, nil
}

// DiscoverAccounts lists all accounts that have warden credentials configured.
// It searches for secrets matching the prefix "{env}/" and ending with
// "/warden", then extracts account names from the middle segment.
func (r *Resolver) DiscoverAccounts(ctx context.Context) ([]string, error) {
	prefix := strings.ToLower(fmt.Sprintf("%s/", r.env))
	suffix := "/" + serviceSegment

	names, err := r.provider.ListSecrets(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("discover accounts: %w", err)
	}

	var accounts []string
	for _, name := range names {
		lower := strings.ToLower(name)
		if !strings.HasSuffix(lower, suffix) {
			continue
		}
		// Extract account: "{env}/{account}/warden" leaves the middle segment
		trimmed := strings.TrimPrefix(lower, prefix)
		trimmed = strings.TrimSuffix(trimmed, suffix)
		if trimmed != "" && !strings.Contains(trimmed, "/") {
			accounts = append(accounts, trimmed)
		}
	}

	r.logger.Info("secrets.accounts_discovered",
		zap.Int("count", len(accounts)),
		zap.Strings("accounts", accounts),
	)
	return accounts, nil
}

// parseCredentials validates the raw secret payload. Both fields are
// required: a half-filled secret is a provisioning mistake worth failing on.
func parseCredentials(m map[string]string) (warden.Credentials, error) {
	username := m["username"]
	password := m["password"]
	if username == "" {
		return warden.Credentials{}, fmt.Errorf("missing username")
	}
	if password == "" {
		return warden.Credentials{}, fmt.Errorf("missing password")
	}
	return warden.Credentials{Username: username, Password: password}, nil
}
