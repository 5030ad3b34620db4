package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/youwol/httpclients/pkg/auth"
	"github.com/youwol/httpclients/pkg/cdn"
	"github.com/youwol/httpclients/pkg/cdnsessions"
	"github.com/youwol/httpclients/pkg/config"
	"github.com/youwol/httpclients/pkg/debug"
	"github.com/youwol/httpclients/pkg/files"
	"github.com/youwol/httpclients/pkg/live"
	"github.com/youwol/httpclients/pkg/monitor"
	"github.com/youwol/httpclients/pkg/pyyouwol"
	"github.com/youwol/httpclients/pkg/storage"
	"github.com/youwol/httpclients/pkg/storage/memory"
	"github.com/youwol/httpclients/pkg/storage/postgres"
	"github.com/youwol/httpclients/pkg/transport"
	"github.com/youwol/httpclients/pkg/treedb"
)

// app holds the clients a command works with.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	client   *transport.Client
	store    storage.EventStore
	journal  *storage.Journal
	root     *transport.Router
	py       *pyyouwol.Client
	files    *files.Client
	cdn      *cdn.Client
	treedb   *treedb.Client
	sessions *cdnsessions.Client

	// live is set once a command connects.
	live *live.Conn
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	checkToken(cfg.Auth.Token, logger)

	// Root routers built below read these once.
	transport.SetDefaults(cfg.TransportDefaults())

	client, err := transport.New(transport.Options{
		Logger:  logger,
		Timeout: cfg.Client.Timeout,
		BaseURL: cfg.Client.Host,
	})
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	store, err := openStore(ctx, cfg.Journal)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		client: client,
		store:  store,
		root:   transport.NewRootRouter(client, "", nil),
		py: pyyouwol.New(client, pyyouwol.Options{Live: live.Options{
			URL:            cfg.LiveURL(),
			ReconnectDelay: cfg.Live.ReconnectDelay,
			Logger:         logger,
		}}),
		files:    files.New(client, files.Options{}),
		cdn:      cdn.New(client, cdn.Options{}),
		treedb:   treedb.New(client, treedb.Options{}),
		sessions: cdnsessions.New(client, nil),
	}
	if store != nil {
		a.journal = storage.NewJournal(store, 0, logger)
	}
	return a, nil
}

// sinks returns the channels every monitored call reports to, extra first.
func (a *app) sinks(extra ...monitor.Sink) []monitor.Sink {
	if a.journal != nil {
		extra = append(extra, a.journal)
	}
	return extra
}

// Close drains the journal and closes the live connection if one was used.
func (a *app) Close(ctx context.Context) error {
	if a.live != nil {
		a.live.Close()
	}
	if a.journal != nil {
		return a.journal.Close(ctx)
	}
	return nil
}

func openStore(ctx context.Context, cfg config.JournalConfig) (storage.EventStore, error) {
	switch cfg.Type {
	case "memory":
		debug.Log("storage", "journal", "type", "memory", "max_size", cfg.MaxSize)
		return memory.New(cfg.MaxSize), nil
	case "postgres":
		store, err := postgres.New(ctx, postgres.FromJournal(cfg.Postgres))
		if err != nil {
			return nil, fmt.Errorf("opening journal: %w", err)
		}
		return store, nil
	default:
		return nil, nil
	}
}

// checkToken warns about a configured token that cannot work.
func checkToken(raw string, logger *slog.Logger) {
	if raw == "" {
		return
	}
	tok, err := auth.ParseToken(raw)
	if err != nil {
		logger.Warn("configured token is not a JWT", "error", err)
		return
	}
	if err := tok.Check(time.Now()); err != nil {
		logger.Warn("configured token is unusable", "subject", tok.Subject, "error", err)
		return
	}
	debug.Log("auth", "token", "subject", tok.Subject, "name", tok.Name, "expires_at", tok.ExpiresAt)
}
