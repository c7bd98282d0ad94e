package checks

import (
	"context"
	"time"

	"envcompare/core/environment"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Check statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// maxConcurrentChecks bounds the environments connected to at once.
const maxConcurrentChecks = 4

// Connections hands out database handles per environment.
type Connections interface {
	Acquire(ctx context.Context, name string) (*gorm.DB, error)
	Release(name string, db *gorm.DB)
}

// EnvironmentStatus is the connectivity of one environment.
type EnvironmentStatus struct {
	Name      string `json:"name"`
	Driver    string `json:"driver"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// CheckEnvironments connects to every registered environment and reports
// which ones are reachable, in name order.
func CheckEnvironments(ctx context.Context, envs *environment.Registry, conns Connections, logger *zap.Logger) []EnvironmentStatus {
	names := envs.Names()
	results := make([]EnvironmentStatus, len(names))

	var g errgroup.Group
	g.SetLimit(maxConcurrentChecks)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			results[i] = checkEnvironment(ctx, envs, conns, name)
			if results[i].Status != StatusOK {
				logger.Warn("Environment unreachable", zap.String("environment", name), zap.String("error", results[i].Error))
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func checkEnvironment(ctx context.Context, envs *environment.Registry, conns Connections, name string) EnvironmentStatus {
	status := EnvironmentStatus{Name: name, Status: StatusOK}

	cfg, err := envs.Resolve(name)
	if err != nil {
		status.Status = StatusError
		status.Error = err.Error()
		return status
	}
	status.Driver = cfg.Driver

	start := time.Now()
	if db, err := conns.Acquire(ctx, name); err != nil {
		status.Status = StatusError
		status.Error = err.Error()
	} else {
		conns.Release(name, db)
	}
	status.LatencyMS = time.Since(start).Milliseconds()
	return status
}
