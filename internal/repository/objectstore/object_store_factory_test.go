package objectstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zzenonn/zhost/internal/domain"
	zerrors "github.com/zzenonn/zhost/internal/errors"
	"github.com/zzenonn/zhost/internal/repository/objectstore"
)

// mockObjectRepository records the bucket/key pairs it was asked for.
type mockObjectRepository struct {
	storageType string
	getFunc     func(ctx context.Context, bucket, key string) (domain.ObjectContent, error)
	calls       []string
}

func (m *mockObjectRepository) GetObject(ctx context.Context, bucket, key string) (domain.ObjectContent, error) {
	m.calls = append(m.calls, bucket+"/"+key)
	if m.getFunc != nil {
		return m.getFunc(ctx, bucket, key)
	}
	return domain.ObjectContent{Body: []byte("ok"), Bucket: bucket, Key: key}, nil
}

func (m *mockObjectRepository) GetStorageType() string {
	return m.storageType
}

func TestParseBucketConfig(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    objectstore.BucketConfig
		wantErr bool
	}{
		{"bare name", "site-bucket", objectstore.BucketConfig{Name: "site-bucket", Type: objectstore.S3Type}, false},
		{"s3 uri", "s3://site-bucket", objectstore.BucketConfig{Name: "site-bucket", Type: objectstore.S3Type}, false},
		{"gs uri", "gs://site-bucket", objectstore.BucketConfig{Name: "site-bucket", Type: objectstore.GCSType}, false},
		{"colon form", "gcs:site-bucket", objectstore.BucketConfig{Name: "site-bucket", Type: objectstore.GCSType}, false},
		{"upper scheme", "S3://site-bucket", objectstore.BucketConfig{Name: "site-bucket", Type: objectstore.S3Type}, false},
		{"empty", "  ", objectstore.BucketConfig{}, true},
		{"empty name", "s3://", objectstore.BucketConfig{}, true},
		{"unknown scheme", "azure://site-bucket", objectstore.BucketConfig{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := objectstore.ParseBucketConfig(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRouter_GetObject(t *testing.T) {
	s3Repo := &mockObjectRepository{storageType: "s3"}
	gcsRepo := &mockObjectRepository{storageType: "gcs"}
	router := objectstore.NewRouter(s3Repo, gcsRepo)

	content, err := router.GetObject(context.Background(), "gs://assets", "logo.png")
	require.NoError(t, err)
	assert.Equal(t, "gs://assets", content.Bucket)
	assert.Equal(t, []string{"assets/logo.png"}, gcsRepo.calls)
	assert.Empty(t, s3Repo.calls)

	_, err = router.GetObject(context.Background(), "bkt1", "index.html")
	require.NoError(t, err)
	assert.Equal(t, []string{"bkt1/index.html"}, s3Repo.calls)
}

func TestRouter_UnsupportedBackend(t *testing.T) {
	router := objectstore.NewRouter(&mockObjectRepository{storageType: "s3"})

	_, err := router.GetObject(context.Background(), "gs://assets", "index.html")
	assert.True(t, errors.Is(err, zerrors.ErrUnsupportedBackend))
}

func TestRouter_PropagatesBackendError(t *testing.T) {
	backendErr := &objectstore.BackendError{Backend: "s3", Code: "NoSuchKey", Err: zerrors.ErrObjectNotFound}
	router := objectstore.NewRouter(&mockObjectRepository{
		storageType: "s3",
		getFunc: func(ctx context.Context, bucket, key string) (domain.ObjectContent, error) {
			return domain.ObjectContent{}, backendErr
		},
	})

	_, err := router.GetObject(context.Background(), "bkt1", "missing.html")
	assert.ErrorIs(t, err, zerrors.ErrObjectNotFound)

	var got *objectstore.BackendError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "NoSuchKey", got.Code)
}
