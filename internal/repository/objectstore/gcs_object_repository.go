package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/zzenonn/zhost/internal/domain"
	zerrors "github.com/zzenonn/zhost/internal/errors"
)

// GCSObjectRepository implements ObjectRepository for Google Cloud Storage
type GCSObjectRepository struct {
	client *storage.Client
}

// NewGCSObjectRepository creates a new GCS object repository
func NewGCSObjectRepository(client *storage.Client) GCSObjectRepository {
	return GCSObjectRepository{
		client: client,
	}
}

// GetObject reads a whole object and its content type from GCS
func (r *GCSObjectRepository) GetObject(ctx context.Context, bucket, key string) (domain.ObjectContent, error) {
	reader, err := r.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return domain.ObjectContent{}, classifyGCSError(err)
	}
	defer reader.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		return domain.ObjectContent{}, fmt.Errorf("failed to read gs://%s/%s: %w", bucket, key, err)
	}

	contentType := reader.Attrs.ContentType
	return domain.ObjectContent{
		Body:           body,
		ContentType:    contentType,
		HasContentType: contentType != "",
		Bucket:         bucket,
		Key:            key,
	}, nil
}

// GetStorageType returns the storage type
func (r *GCSObjectRepository) GetStorageType() string {
	return string(GCSType)
}

// classifyGCSError turns a GCS client error into a BackendError
func classifyGCSError(err error) error {
	switch {
	case errors.Is(err, storage.ErrObjectNotExist):
		return &BackendError{Backend: "gcs", Code: "ObjectNotExist", Err: zerrors.ErrObjectNotFound}
	case errors.Is(err, storage.ErrBucketNotExist):
		return &BackendError{Backend: "gcs", Code: "BucketNotExist", Err: zerrors.ErrObjectNotFound}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &BackendError{Backend: "gcs", Code: strconv.Itoa(apiErr.Code), Message: apiErr.Message, Err: err}
	}

	return &BackendError{Backend: "gcs", Code: "Unknown", Message: err.Error(), Err: err}
}
