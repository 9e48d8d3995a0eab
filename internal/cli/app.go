package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/infra/config"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/infra/filestore"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/infra/logger"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/infra/pgstore"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/infra/redisstore"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/ports"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/usecase"
)

// appCtx is everything a command needs after config and storage are resolved.
type appCtx struct {
	loaded  config.Loaded
	tracker *usecase.Tracker
	source  string
	log     *slog.Logger

	closers []func() error
}

func (a *appCtx) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

func openApp(cmd *cobra.Command, opts *globalOpts) (*appCtx, error) {
	start, err := os.Getwd()
	if err != nil {
		start = "."
	}

	loaded, err := config.Load(config.Options{ConfigFile: opts.configFile, StartDir: start})
	if err != nil {
		return nil, err
	}

	app := &appCtx{loaded: loaded}

	cleanup, logErr := logger.Setup(logger.Config{Root: loaded.Root, Debug: opts.debug})
	if cleanup != nil {
		app.closers = append(app.closers, cleanup)
	}
	app.log = logger.Component("cli")
	if logErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", logErr)
	}
	app.log.Info("cli.start", "command", cmd.CommandPath(), "config", loaded.File, "backend", string(loaded.Config.Storage.Backend))

	ctx := commandContext(cmd)

	store, source, err := openStore(ctx, loaded.Config.Storage)
	if err != nil {
		app.close()
		return nil, err
	}
	if c, ok := store.(ports.StoreCloser); ok {
		app.closers = append(app.closers, c.Close)
	}
	app.source = source

	app.tracker = usecase.NewTracker(store, loaded.Config.Program, usecase.WithLogger(logger.Component("tracker")))
	if err := app.tracker.Open(ctx); err != nil {
		app.close()
		return nil, err
	}
	if rec := app.tracker.Recovered(); rec != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not load %s (%v); starting with an empty program\n", source, rec)
	}
	return app, nil
}

func openStore(ctx context.Context, cfg domain.StorageConfig) (ports.ProgramStore, string, error) {
	switch cfg.Backend {
	case domain.BackendPostgres:
		s, err := pgstore.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, "", err
		}
		return s, "postgres key " + cfg.Postgres.Key, nil
	case domain.BackendRedis:
		s, err := redisstore.Open(ctx, cfg.Redis)
		if err != nil {
			return nil, "", err
		}
		return s, fmt.Sprintf("redis %s/%s", cfg.Redis.Addr, cfg.Redis.Key), nil
	default:
		s := filestore.New(cfg.Path)
		return s, s.Path(), nil
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
