package integrity

import (
	"context"
	"errors"

	"envcompare/core/environment"
	"envcompare/core/storage"
	"envcompare/feature/integrity/checks"

	"go.uber.org/zap"
)

// ErrStorageDisabled is returned by FixStorage when no export store is configured.
var ErrStorageDisabled = errors.New("export storage is not configured")

// Report combines every check.
type Report struct {
	Healthy      bool                       `json:"healthy"`
	Environments []checks.EnvironmentStatus `json:"environments"`
	Storage      checks.StorageStatus       `json:"storage"`
}

// Service handles integrity checks.
type Service struct {
	envs    *environment.Registry
	conns   checks.Connections
	reports *storage.ReportStore
	logger  *zap.Logger
}

// NewService creates a new integrity service. reports may be nil.
func NewService(envs *environment.Registry, conns checks.Connections, reports *storage.ReportStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		envs:    envs,
		conns:   conns,
		reports: reports,
		logger:  logger,
	}
}

// CheckEnvironments connects to every environment.
func (s *Service) CheckEnvironments(ctx context.Context) []checks.EnvironmentStatus {
	return checks.CheckEnvironments(ctx, s.envs, s.conns, s.logger)
}

// CheckStorage checks the export bucket.
func (s *Service) CheckStorage(ctx context.Context) checks.StorageStatus {
	return checks.CheckStorage(ctx, s.reports)
}

// FixStorage creates the export bucket.
func (s *Service) FixStorage(ctx context.Context) error {
	if s.reports == nil {
		return ErrStorageDisabled
	}
	return checks.FixStorage(ctx, s.reports, s.logger)
}

// Run performs all checks.
func (s *Service) Run(ctx context.Context) *Report {
	report := &Report{
		Environments: s.CheckEnvironments(ctx),
		Storage:      s.CheckStorage(ctx),
	}

	report.Healthy = report.Storage.Status == checks.StatusOK
	for _, env := range report.Environments {
		if env.Status != checks.StatusOK {
			report.Healthy = false
		}
	}

	s.logger.Info("Integrity checks completed",
		zap.Bool("healthy", report.Healthy),
		zap.Int("environments", len(report.Environments)),
		zap.String("storage", report.Storage.Status),
	)
	return report
}
