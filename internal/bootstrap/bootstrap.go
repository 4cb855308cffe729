// Package bootstrap builds the document service from configuration. Both
// the API server and insightctl start from here.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bryanwahyu/insights-workspace/internal/application"
	appdocs "github.com/bryanwahyu/insights-workspace/internal/application/documents"
	"github.com/bryanwahyu/insights-workspace/internal/config"
	domain "github.com/bryanwahyu/insights-workspace/internal/domain/documents"
	"github.com/bryanwahyu/insights-workspace/internal/infra/analyzer/simulated"
	"github.com/bryanwahyu/insights-workspace/internal/infra/db/memory"
	mysqlp "github.com/bryanwahyu/insights-workspace/internal/infra/db/mysql"
	"github.com/bryanwahyu/insights-workspace/internal/infra/db/postgres"
	"github.com/bryanwahyu/insights-workspace/internal/infra/db/sqlite"
	"github.com/bryanwahyu/insights-workspace/internal/infra/inspect"
	"github.com/bryanwahyu/insights-workspace/internal/infra/storage"
	"github.com/bryanwahyu/insights-workspace/internal/logger"
	"github.com/bryanwahyu/insights-workspace/internal/metrics"
	"github.com/bryanwahyu/insights-workspace/internal/middleware"
)

// App is the wired service plus what the caller must close.
type App struct {
	Service  *appdocs.Service
	Checkers map[string]middleware.HealthChecker

	closers []func() error
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

type checkedRepo interface {
	domain.Repository
	Check(ctx context.Context) error
}

type migrator interface {
	Migrate(ctx context.Context) error
}

// New wires store, staging and analyzer. m may be nil.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	app := &App{Checkers: map[string]middleware.HealthChecker{}}

	repo, err := app.openStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	// result set tidak boleh survive restart
	if err := repo.Purge(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("purge %s store: %w", cfg.Store.Driver, err)
	}
	app.Checkers["store"] = repo

	var blobs domain.BlobStore = storage.Noop{}
	if cfg.Minio.Enabled {
		st, err := storage.New(ctx, storage.Options{
			Endpoint:  cfg.Minio.Endpoint,
			Region:    cfg.Minio.Region,
			Bucket:    cfg.Minio.BucketName,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("minio init: %w", err)
		}
		blobs = st
		app.Checkers["blobs"] = st
	}

	opts := []simulated.Option{
		simulated.WithDelays(cfg.Analysis.SplitDelay, cfg.Analysis.AnalyzeDelay),
	}
	if cfg.Analysis.VerifyIntegrity {
		opts = append(opts, simulated.WithInspector(inspect.New()))
	}

	app.Service = &appdocs.Service{
		Repo:          repo,
		Analyzer:      simulated.NewEngine(opts...),
		Blobs:         blobs,
		Clock:         application.SystemClock{},
		Log:           log,
		Metrics:       m,
		MaxConcurrent: cfg.Analysis.MaxConcurrent,
		NewID:         uuid.NewString,
	}
	log.Info().
		Str("store", cfg.Store.Driver).
		Bool("staging", cfg.Minio.Enabled).
		Bool("verify_integrity", cfg.Analysis.VerifyIntegrity).
		Msg("document service ready")
	return app, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (checkedRepo, error) {
	var (
		conn *sql.DB
		repo checkedRepo
		err  error
	)
	switch cfg.Store.Driver {
	case "memory":
		return memory.NewDocumentRepo(), nil
	case "sqlite":
		if conn, err = sqlite.Open(ctx, cfg.Store.Path); err != nil {
			return nil, fmt.Errorf("sqlite open: %w", err)
		}
		repo = sqlite.NewDocumentRepository(conn)
	case "mysql":
		if conn, err = mysqlp.Connect(ctx, cfg.MySQLDSN()); err != nil {
			return nil, fmt.Errorf("mysql connect: %w", err)
		}
		repo = mysqlp.NewDocumentRepository(conn)
	case "postgres":
		if conn, err = postgres.Connect(ctx, cfg.PostgresDSN()); err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		repo = postgres.NewDocumentRepository(conn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	a.closers = append(a.closers, conn.Close)

	if mg, ok := repo.(migrator); ok {
		if err := mg.Migrate(ctx); err != nil {
			return nil, err
		}
	}
	return repo, nil
}
