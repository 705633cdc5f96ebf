// Package app wires configuration, logging, storage and the episode layers
// into one handle the CLI opens per invocation.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"dropline/internal/collection"
	"dropline/internal/config"
	"dropline/internal/db"
	"dropline/internal/domain"
	"dropline/internal/episodes"
	"dropline/internal/events"
	"dropline/internal/gate"
	"dropline/internal/logging"
	"dropline/internal/migrate"
	"dropline/internal/repo"
	"dropline/internal/stats"
	"dropline/internal/storage"
)

// ErrNoActivityLog is returned by ActivityLog for backends without an events table.
var ErrNoActivityLog = errors.New("activity log requires the sqlite backend")

type Options struct {
	Workspace  string
	ConfigPath string
	// Config bypasses file resolution when set.
	Config *config.Config
	// Backend overrides config.storage.backend when set.
	Backend   string
	LogOutput io.Writer
}

type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	DB         *sql.DB
	Repo       repo.Repo
	Service    *episodes.Service
	Store      *collection.Store
	Gate       gate.Gate
	Thresholds stats.Thresholds
}

// ResolveConfig prefers an explicit file, then the workspace config, then defaults.
func ResolveConfig(workspace, path string) (*config.Config, error) {
	if path != "" {
		return config.FromFile(path)
	}
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg, nil
}

// DefaultDocumentPath is where the file backend keeps the collection.
func DefaultDocumentPath(workspace string) string {
	return filepath.Join(filepath.Dir(db.Path(workspace)), "episodes.json")
}

func Open(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = ResolveConfig(opts.Workspace, opts.ConfigPath); err != nil {
			return nil, err
		}
	}
	if opts.Backend != "" {
		cfg.Storage.Backend = opts.Backend
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	logger, err := logging.NewFromConfig(cfg.Log, opts.LogOutput)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger}
	var slot storage.Slot
	var recorder events.Recorder = events.Discard{}
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		conn, err := db.Open(db.Config{Workspace: opts.Workspace})
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		version, err := migrate.Migrate(ctx, conn)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Debug("database ready", "path", db.Path(opts.Workspace), "schema_version", version)
		a.DB = conn
		a.Repo = repo.Repo{DB: conn}
		slot = a.Repo.DocumentSlot(cfg.Storage.Key)
		recorder = events.Writer{DB: conn}
	case config.BackendFile:
		path := cfg.Storage.Path
		if path == "" {
			path = DefaultDocumentPath(opts.Workspace)
		}
		f, err := storage.NewFile(path)
		if err != nil {
			return nil, err
		}
		slot = f
	case config.BackendMemory:
		slot = storage.NewMemory(nil)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	svc := episodes.New(slot, logger)
	svc.Events = recorder
	svc.Latency = episodes.Latency{
		List:   cfg.Latency.List.Duration,
		Get:    cfg.Latency.Get.Duration,
		Create: cfg.Latency.Create.Duration,
		Update: cfg.Latency.Update.Duration,
		Delete: cfg.Latency.Delete.Duration,
	}
	a.Service = svc
	a.Store = collection.New(svc, logger)

	a.Gate = gate.New(cfg.Gate.Passphrase)
	a.Gate.ScreenDelay = cfg.Gate.ScreenDelay.Duration
	a.Gate.ConfirmDelay = cfg.Gate.ConfirmDelay.Duration
	a.Thresholds = stats.Thresholds{Low: cfg.Stock.Low, Critical: cfg.Stock.Critical}
	return a, nil
}

// ActivityLog returns the most recent activity records, newest first.
func (a *App) ActivityLog(ctx context.Context, limit int, evtType, episodeID string) ([]domain.Event, error) {
	if a.DB == nil {
		return nil, ErrNoActivityLog
	}
	kind := ""
	if episodeID != "" {
		kind = "episode"
	}
	return a.Repo.LatestEvents(ctx, limit, evtType, kind, episodeID)
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
