package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	appconfig "github.com/ian97531/boombox/internal/app/config"
	"github.com/ian97531/boombox/internal/app/gate"
	"github.com/ian97531/boombox/internal/app/logging"
	"github.com/ian97531/boombox/internal/app/metrics"
	"github.com/ian97531/boombox/internal/app/normalize"
	"github.com/ian97531/boombox/internal/app/pipeline"
	"github.com/ian97531/boombox/internal/app/repository"
	"github.com/ian97531/boombox/internal/app/repository/pg"
	"github.com/ian97531/boombox/internal/app/repository/sqlite"
	"github.com/ian97531/boombox/internal/app/storage"
	"github.com/ian97531/boombox/internal/app/transcript"
)

const connectTimeout = 10 * time.Second

// ConfigPath is the location of the YAML configuration file.
type ConfigPath string

// Application bundles the long-lived components built from one configuration.
type Application struct {
	Config      *appconfig.Config
	Logger      *zap.Logger
	Store       storage.ObjectStore
	DAO         repository.EpisodeDAO
	Gate        gate.Gate
	Metrics     *metrics.Metrics
	Normalizers *normalize.Registry
	Processor   *pipeline.Processor
}

func NewApplication(
	cfg *appconfig.Config,
	logger *zap.Logger,
	store storage.ObjectStore,
	dao repository.EpisodeDAO,
	g gate.Gate,
	m *metrics.Metrics,
	normalizers *normalize.Registry,
	processor *pipeline.Processor,
) *Application {
	return &Application{
		Config:      cfg,
		Logger:      logger,
		Store:       store,
		DAO:         dao,
		Gate:        g,
		Metrics:     m,
		Normalizers: normalizers,
		Processor:   processor,
	}
}

func provideConfig(path ConfigPath) (*appconfig.Config, error) {
	return appconfig.Load(string(path))
}

func provideLogger(cfg *appconfig.Config) (*zap.Logger, func(), error) {
	logger, err := logging.NewLogger(cfg.Log.Development)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func provideEngineOptions(cfg *appconfig.Config) transcript.Options {
	return cfg.Engine
}

func provideObjectStore(cfg *appconfig.Config) (storage.ObjectStore, error) {
	switch cfg.Storage.Driver {
	case "local":
		return storage.NewLocalStore(cfg.Storage.Root)
	case "minio":
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		return storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// provideEpisodeDAO opens the configured database and applies the schema.
func provideEpisodeDAO(cfg *appconfig.Config, logger *zap.Logger) (repository.EpisodeDAO, func(), error) {
	var (
		dao repository.EpisodeDAO
		err error
	)
	switch cfg.Database.Driver {
	case "postgres":
		dao, err = pg.NewPostgresDB(cfg.Database.DSN)
	case "sqlite":
		dao, err = sqlite.NewSQLiteDB(cfg.Database.DSN)
	default:
		err = fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := dao.Migrate(ctx); err != nil {
		_ = dao.Close()
		return nil, nil, fmt.Errorf("failed to migrate %s database: %w", cfg.Database.Driver, err)
	}

	cleanup := func() {
		if err := dao.Close(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}
	return dao, cleanup, nil
}

// provideGate returns the Redis gate, or an in-process gate when Redis is disabled.
func provideGate(cfg *appconfig.Config, logger *zap.Logger) (gate.Gate, func(), error) {
	if !cfg.Redis.Enabled {
		logger.Info("Redis disabled, using in-process gate")
		return gate.NewMemoryGate(pipeline.Providers), func() {}, nil
	}

	g := gate.NewRedisGate(gate.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.TTL,
	}, pipeline.Providers)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := g.Ping(ctx); err != nil {
		_ = g.Close()
		return nil, nil, err
	}
	return g, func() { _ = g.Close() }, nil
}
