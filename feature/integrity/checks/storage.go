package checks

import (
	"context"

	"envcompare/core/storage"

	"go.uber.org/zap"
)

// StorageStatus describes the export bucket.
type StorageStatus struct {
	Configured bool   `json:"configured"`
	Bucket     string `json:"bucket,omitempty"`
	Exists     bool   `json:"exists"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

// CheckStorage reports whether the export bucket exists. A nil store means
// uploads are disabled, which is not an error.
func CheckStorage(ctx context.Context, reports *storage.ReportStore) StorageStatus {
	if reports == nil {
		return StorageStatus{Status: StatusOK}
	}

	status := StorageStatus{Configured: true, Bucket: reports.Bucket(), Status: StatusOK}
	exists, err := reports.BucketExists(ctx)
	if err != nil {
		status.Status = StatusError
		status.Error = err.Error()
		return status
	}
	status.Exists = exists
	if !exists {
		status.Status = StatusError
		status.Error = "bucket " + reports.Bucket() + " does not exist"
	}
	return status
}

// FixStorage creates the export bucket when it is missing.
func FixStorage(ctx context.Context, reports *storage.ReportStore, logger *zap.Logger) error {
	if err := reports.EnsureBucket(ctx); err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", reports.Bucket()), zap.Error(err))
		return err
	}
	logger.Info("Export bucket is present", zap.String("bucket", reports.Bucket()))
	return nil
}
