package cmd

import (
	"fmt"

	"envcompare/core/config"
	"envcompare/core/database"
	"envcompare/core/environment"
	"envcompare/core/logger"
	"envcompare/core/storage"
	"envcompare/feature/comparison"

	"go.uber.org/zap"
)

// defaultEnvironment is the name given to the [database] config section.
const defaultEnvironment = "default"

// runtime holds the collaborators shared by the server and the CLI commands.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	envs    *environment.Registry
	pool    *database.Pool
	reports *storage.ReportStore
}

func newRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	envs, err := loadEnvironments(cfg)
	if err != nil {
		return nil, err
	}
	logg.Info("Loaded environments", zap.Strings("environments", envs.Names()))

	// Storage is optional; without it exports are only returned, never uploaded.
	var reports *storage.ReportStore
	if client, err := storage.NewClient(cfg.Storage); err != nil {
		logg.Warn("Optional storage client failed", zap.Error(err))
	} else {
		reports = storage.NewReportStore(client, cfg.Storage.Bucket, cfg.Compare.ExportPrefix)
	}

	return &runtime{
		cfg:     cfg,
		logger:  logg,
		envs:    envs,
		pool:    database.NewPool(envs, database.PoolOptions{Size: cfg.Compare.PoolSize, Logger: logg}),
		reports: reports,
	}, nil
}

// loadEnvironments reads the environments file and registers the [database]
// section as "default" unless the file already defines that name.
func loadEnvironments(cfg *config.Config) (*environment.Registry, error) {
	envs, err := environment.Load(cfg.Compare.EnvironmentsFile)
	if err != nil {
		return nil, err
	}
	if _, err := envs.Get(defaultEnvironment); err == nil {
		return envs, nil
	}
	err = envs.Add(environment.Environment{
		Name:        defaultEnvironment,
		Description: "Database from the application config",
		Database:    cfg.Database,
	})
	if err != nil {
		return nil, err
	}
	return envs, nil
}

func (r *runtime) comparisonFeature() *comparison.Feature {
	return comparison.NewFeature(r.cfg.Compare, comparison.Dependencies{
		Connections:  r.pool,
		Environments: r.envs,
		Cache:        database.NewMetadataCache(r.cfg.Compare.MetadataTTL()),
		Reports:      r.reports,
		Logger:       r.logger,
	})
}

func (r *runtime) close() {
	if err := r.pool.Close(); err != nil {
		r.logger.Warn("Failed to close connections", zap.Error(err))
	}
	_ = r.logger.Sync()
}
