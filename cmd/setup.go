package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	chartrepo "github.com/nholding/kundli-view/internal/chart/repository"
	"github.com/nholding/kundli-view/internal/config"
	"github.com/nholding/kundli-view/internal/engine"
	"github.com/nholding/kundli-view/internal/logger"
	"github.com/nholding/kundli-view/internal/repository"
	"github.com/nholding/kundli-view/internal/session"
)

// setup loads configuration and builds the process logger.
func setup() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(log)
	return cfg, log, nil
}

// buildEngine returns the engine replaying chartFile when it is set, and
// the configured executable otherwise.
func buildEngine(cfg config.Config, chartFile string, log zerolog.Logger) engine.Engine {
	if chartFile != "" {
		log.Debug().Str("path", chartFile).Msg("replaying chart file")
		return &engine.FileEngine{Path: chartFile}
	}
	return engine.WithTimeout(engine.NewExecEngine(cfg.EnginePath, log), cfg.EngineTimeout)
}

// openArchive connects to the chart archive when it is enabled. The
// returned clients must be closed by the caller.
func openArchive(ctx context.Context, cfg config.Config) (*chartrepo.RdsChartRepository, *repository.Clients, error) {
	if !cfg.Archive.Enabled {
		return nil, nil, nil
	}

	clients, err := repository.NewAWSClients(ctx, cfg.Repository(), true, false)
	if err != nil {
		return nil, nil, err
	}

	repo := chartrepo.NewChartRepository(clients.RDS.Client)
	if err := repo.Migrate(ctx); err != nil {
		clients.Close()
		return nil, nil, err
	}
	return repo, clients, nil
}

// newSession builds the session, archiving into repo when it is non-nil.
func newSession(eng engine.Engine, repo *chartrepo.RdsChartRepository, log zerolog.Logger) *session.Session {
	if repo == nil {
		return session.New(eng, log)
	}
	return session.New(eng, log, session.WithArchive(repo))
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
