package storage_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"envcompare/core/storage"
	"envcompare/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReportStore_Key(t *testing.T) {
	assert.Equal(t, "reports/a.csv", storage.NewReportStore(nil, "b", "/reports/").Key("a.csv"))
	assert.Equal(t, "a.csv", storage.NewReportStore(nil, "b", "").Key("a.csv"))
}

func TestReportStore_EnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "comparisons").Return(true, nil)

		require.NoError(t, storage.NewReportStore(client, "comparisons", "reports").EnsureBucket(ctx))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "comparisons").Return(false, nil)
		client.On("MakeBucket", ctx, "comparisons", minio.MakeBucketOptions{}).Return(nil)

		require.NoError(t, storage.NewReportStore(client, "comparisons", "reports").EnsureBucket(ctx))
		client.AssertExpectations(t)
	})

	t.Run("Error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "comparisons").Return(false, errors.New("denied"))

		err := storage.NewReportStore(client, "comparisons", "reports").EnsureBucket(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "denied")
	})
}

func TestReportStore_BucketExists(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("BucketExists", ctx, "comparisons").Return(false, errors.New("timeout"))

	exists, err := storage.NewReportStore(client, "comparisons", "reports").BucketExists(ctx)
	require.Error(t, err)
	assert.False(t, exists)
	assert.Contains(t, err.Error(), "failed to check bucket comparisons")
}

func TestReportStore_Put(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	content := []byte("primary_key,status,field,value_a,value_b\n")

	client.On("PutObject", ctx, "comparisons", "reports/comparison_dev.csv", mock.Anything, int64(len(content)),
		minio.PutObjectOptions{ContentType: "text/csv"}).
		Return(minio.UploadInfo{Key: "reports/comparison_dev.csv"}, nil)

	key, err := storage.NewReportStore(client, "comparisons", "reports").Put(ctx, "comparison_dev.csv", content, "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "reports/comparison_dev.csv", key)
	client.AssertExpectations(t)
}

func TestReportStore_RejectsNames(t *testing.T) {
	ctx := context.Background()
	store := storage.NewReportStore(new(mocks.Client), "comparisons", "reports")

	for _, name := range []string{"", "..", "../secret", "a/b", `a\b`} {
		_, err := store.Put(ctx, name, nil, "text/csv")
		assert.True(t, errors.Is(err, storage.ErrInvalidReportName), name)

		_, err = store.Get(ctx, name)
		assert.True(t, errors.Is(err, storage.ErrInvalidReportName), name)

		assert.True(t, errors.Is(store.Delete(ctx, name), storage.ErrInvalidReportName), name)
	}
}

func TestReportStore_Get(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("GetObject", ctx, "comparisons", "reports/r.json", minio.GetObjectOptions{}).
		Return(io.NopCloser(strings.NewReader(`{"summary":{}}`)), nil)

	data, err := storage.NewReportStore(client, "comparisons", "reports").Get(ctx, "r.json")
	require.NoError(t, err)
	assert.Equal(t, `{"summary":{}}`, string(data))
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }
func (r failingReader) Close() error             { return nil }

func TestReportStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("GetObject", ctx, "comparisons", "reports/gone.csv", minio.GetObjectOptions{}).
		Return(failingReader{err: minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}}, nil)

	_, err := storage.NewReportStore(client, "comparisons", "reports").Get(ctx, "gone.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrReportNotFound))
}

func TestReportStore_GetError(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("GetObject", ctx, "comparisons", "reports/r.csv", minio.GetObjectOptions{}).
		Return(nil, errors.New("connection reset"))

	_, err := storage.NewReportStore(client, "comparisons", "reports").Get(ctx, "r.csv")
	require.Error(t, err)
	assert.False(t, errors.Is(err, storage.ErrReportNotFound))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestReportStore_List(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: "reports/old.csv", Size: 10, LastModified: older}
	ch <- minio.ObjectInfo{Key: "reports/new.json", Size: 20, LastModified: newer}
	close(ch)

	client.On("ListObjects", ctx, "comparisons", minio.ListObjectsOptions{Prefix: "reports/", Recursive: true}).
		Return((<-chan minio.ObjectInfo)(ch))

	reports, err := storage.NewReportStore(client, "comparisons", "reports").List(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "new.json", reports[0].Name)
	assert.Equal(t, "reports/new.json", reports[0].Key)
	assert.Equal(t, int64(20), reports[0].Size)
	assert.Equal(t, "old.csv", reports[1].Name)
}

func TestReportStore_ListError(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)

	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Err: errors.New("access denied")}
	close(ch)
	client.On("ListObjects", ctx, "comparisons", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	_, err := storage.NewReportStore(client, "comparisons", "reports").List(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestReportStore_Delete(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("RemoveObject", ctx, "comparisons", "reports/r.csv", minio.RemoveObjectOptions{}).Return(nil)

	require.NoError(t, storage.NewReportStore(client, "comparisons", "reports").Delete(ctx, "r.csv"))
	client.AssertExpectations(t)
}
