// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so exported comparison reports can be kept in
// AWS S3 or a self-hosted MinIO instance.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Reports
//
// ReportStore keeps reports under a key prefix of one bucket:
//
//   - BucketExists: reports whether the bucket is there.
//   - EnsureBucket: creates the bucket when missing.
//   - Put: uploads a report with its content type.
//   - List: lists stored reports, newest first.
//   - Get: downloads a report.
//   - Delete: removes a report.
//
// Report names are single path segments; names containing a separator are
// rejected with ErrInvalidReportName.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	reports := storage.NewReportStore(client, config.Bucket, "reports")
//	key, err := reports.Put(ctx, "comparison_dev_vs_prod.csv", data, "text/csv")
package storage
