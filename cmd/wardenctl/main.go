package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	internalsecrets "github.com/ledgerline/warden-client/internal/secrets"
	"github.com/ledgerline/warden-client/pkg/config"
	"github.com/ledgerline/warden-client/pkg/logger"
	pkgsecrets "github.com/ledgerline/warden-client/pkg/secrets"
	"github.com/ledgerline/warden-client/pkg/tokencache"
	"github.com/ledgerline/warden-client/pkg/warden"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	app := &cli{cfg: cfg, logger: logger.L()}

	if err := newRootCmd(app).ExecuteContext(ctx); err != nil {
		var apiErr *warden.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
			fmt.Fprintf(os.Stderr, "wardenctl: %s (status %d)\n", apiErr.Message, apiErr.StatusCode)
		} else {
			fmt.Fprintf(os.Stderr, "wardenctl: %v\n", err)
		}
		os.Exit(1)
	}
}

// cli carries the objects shared by all subcommands. client and store are
// built in the root command's PersistentPreRunE, after flags have had their
// chance to override the environment configuration; tests pre-set them.
type cli struct {
	cfg    *config.Config
	logger *zap.Logger

	client *warden.Client
	store  tokencache.Store
}

func (a *cli) setup() error {
	if a.client == nil {
		a.client = warden.New(a.logger, warden.Config{
			BaseURL: a.cfg.BaseURL,
			Timeout: a.cfg.Timeout,
		})
	}
	if a.store == nil {
		store, err := a.newStore()
		if err != nil {
			return err
		}
		a.store = store
	}
	return nil
}

// newStore picks the redis token store when configured, the file store
// otherwise. An unreachable redis degrades to the file store: a cache outage
// should not lock anyone out of their own CLI.
func (a *cli) newStore() (tokencache.Store, error) {
	if a.cfg.RedisAddr != "" {
		rs, err := tokencache.NewRedis(a.cfg.RedisAddr, a.cfg.RedisDB, a.cfg.RedisPass, a.logger)
		if err == nil {
			return rs, nil
		}
		a.logger.Warn("wardenctl.redis_unavailable",
			zap.String("addr", a.cfg.RedisAddr),
			zap.Error(err))
	}

	dir := a.cfg.TokenDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".warden")
	}
	return tokencache.NewFile(dir)
}

// newResolver builds the secrets-backed credentials resolver on demand, so
// plain username/password runs never touch AWS.
func (a *cli) newResolver(ctx context.Context) (*internalsecrets.Resolver, error) {
	provider, err := pkgsecrets.NewAWSProvider(ctx, a.cfg.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("secrets provider: %w", err)
	}
	cache := pkgsecrets.NewCache[warden.Credentials](a.cfg.CacheTTL)
	return internalsecrets.NewResolver(a.logger, a.cfg.Env, provider, cache), nil
}

// credentials picks between explicit flags and the secrets backend.
func (a *cli) credentials(ctx context.Context, username, password, account string) (warden.Credentials, error) {
	if account != "" {
		res, err := a.newResolver(ctx)
		if err != nil {
			return warden.Credentials{}, err
		}
		return res.Resolve(ctx, account)
	}
	if username == "" || password == "" {
		return warden.Credentials{}, errors.New("provide --username and --password, or --account")
	}
	return warden.Credentials{Username: username, Password: password}, nil
}

// saveSession stores the interactive token under the fixed session key.
// Failures are logged, not fatal: the login itself already succeeded.
func (a *cli) saveSession(ctx context.Context, token string) {
	entry := tokencache.Entry{AccessToken: token, ObtainedAt: time.Now().UTC()}
	if err := a.store.Put(ctx, sessionKey, entry, a.cfg.TokenTTL); err != nil {
		a.logger.Warn("wardenctl.session_save_failed", zap.Error(err))
	}
}

// resolveToken decides which access token a read command should use:
// an explicit --token, a managed service account, or the stored session.
func (a *cli) resolveToken(ctx context.Context, tokenFlag, account string) (string, error) {
	if tokenFlag != "" {
		return tokenFlag, nil
	}

	if account != "" {
		res, err := a.newResolver(ctx)
		if err != nil {
			return "", err
		}
		creds, err := res.Resolve(ctx, account)
		if err != nil {
			return "", err
		}
		mgr := tokencache.NewManager(a.logger, a.store, a.cfg.TokenTTL, a.client.Login)
		return mgr.Token(ctx, creds)
	}

	entry, err := a.store.Get(ctx, sessionKey)
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	if entry == nil {
		return "", errors.New("no active session: run 'wardenctl login' or pass --token")
	}
	return entry.AccessToken, nil
}
