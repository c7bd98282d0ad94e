package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

var (
	// ErrInvalidReportName is returned for names that would escape the prefix.
	ErrInvalidReportName = errors.New("invalid report name")

	// ErrReportNotFound is returned by Get for names with no stored object.
	ErrReportNotFound = errors.New("report not found")
)

// ReportInfo describes a stored report.
type ReportInfo struct {
	Name         string    `json:"name"`
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ReportStore keeps exported comparison reports under a prefix of a bucket.
type ReportStore struct {
	client Client
	bucket string
	prefix string
}

// NewReportStore creates a store writing to bucket under prefix.
func NewReportStore(client Client, bucket, prefix string) *ReportStore {
	return &ReportStore{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Bucket returns the target bucket.
func (s *ReportStore) Bucket() string {
	return s.bucket
}

// Key returns the object key of a report name.
func (s *ReportStore) Key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidReportName, name)
	}
	return nil
}

// BucketExists reports whether the bucket exists.
func (s *ReportStore) BucketExists(ctx context.Context) (bool, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return false, fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	return exists, nil
}

// EnsureBucket creates the bucket if it does not exist.
func (s *ReportStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.BucketExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Put uploads content as name and returns its object key.
func (s *ReportStore) Put(ctx context.Context, name string, content []byte, contentType string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	key := s.Key(name)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}

// Get downloads the report called name.
func (s *ReportStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	key := s.Key(name)
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.readError(name, key, err)
	}
	defer obj.Close()

	// The object is fetched lazily, so a missing key surfaces on read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.readError(name, key, err)
	}
	return data, nil
}

func (s *ReportStore) readError(name, key string, err error) error {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
		return fmt.Errorf("%w: %s", ErrReportNotFound, name)
	}
	return fmt.Errorf("failed to read %s: %w", key, err)
}

// List returns the stored reports, newest first.
func (s *ReportStore) List(ctx context.Context) ([]ReportInfo, error) {
	prefix := ""
	if s.prefix != "" {
		prefix = s.prefix + "/"
	}

	var reports []ReportInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", obj.Err)
		}
		reports = append(reports, ReportInfo{
			Name:         strings.TrimPrefix(obj.Key, prefix),
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].LastModified.After(reports[j].LastModified)
	})
	return reports, nil
}

// Delete removes the report called name.
func (s *ReportStore) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	key := s.Key(name)
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
