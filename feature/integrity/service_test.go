package integrity

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"envcompare/core/database"
	"envcompare/core/environment"
	"envcompare/core/storage"
	"envcompare/core/storage/mocks"
	"envcompare/feature/integrity/checks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupService registers a reachable sqlite environment and one with an
// unsupported driver.
func setupService(t *testing.T, client *mocks.Client) *Service {
	envs, err := environment.New(
		environment.Environment{Name: "dev", Database: database.Config{
			Driver: database.DriverSQLite,
			Name:   filepath.Join(t.TempDir(), "dev.db"),
		}},
		environment.Environment{Name: "legacy", Database: database.Config{Driver: "oracle"}},
	)
	require.NoError(t, err)

	pool := database.NewPool(envs, database.PoolOptions{})
	t.Cleanup(func() { _ = pool.Close() })

	var reports *storage.ReportStore
	if client != nil {
		reports = storage.NewReportStore(client, "comparisons", "reports")
	}
	return NewService(envs, pool, reports, zap.NewNop())
}

func TestService_CheckEnvironments(t *testing.T) {
	svc := setupService(t, nil)

	results := svc.CheckEnvironments(context.Background())
	require.Len(t, results, 2)

	assert.Equal(t, "dev", results[0].Name)
	assert.Equal(t, checks.StatusOK, results[0].Status)

	assert.Equal(t, "legacy", results[1].Name)
	assert.Equal(t, checks.StatusError, results[1].Status)
	assert.Contains(t, results[1].Error, "unsupported database driver")
}

func TestService_Run(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", context.Background(), "comparisons").Return(true, nil)
	svc := setupService(t, client)

	report := svc.Run(context.Background())
	assert.False(t, report.Healthy, "legacy is unreachable")
	assert.Len(t, report.Environments, 2)
	assert.True(t, report.Storage.Exists)
}

func TestService_RunHealthy(t *testing.T) {
	envs, err := environment.New(environment.Environment{Name: "dev", Database: database.Config{
		Driver: database.DriverSQLite,
		Name:   filepath.Join(t.TempDir(), "dev.db"),
	}})
	require.NoError(t, err)
	pool := database.NewPool(envs, database.PoolOptions{})
	t.Cleanup(func() { _ = pool.Close() })

	report := NewService(envs, pool, nil, nil).Run(context.Background())
	assert.True(t, report.Healthy)
	assert.False(t, report.Storage.Configured)
}

func TestService_FixStorage(t *testing.T) {
	ctx := context.Background()

	assert.True(t, errors.Is(setupService(t, nil).FixStorage(ctx), ErrStorageDisabled))

	client := new(mocks.Client)
	client.On("BucketExists", ctx, "comparisons").Return(false, nil)
	client.On("MakeBucket", ctx, "comparisons", minio.MakeBucketOptions{}).Return(nil)

	require.NoError(t, setupService(t, client).FixStorage(ctx))
	client.AssertExpectations(t)
}
