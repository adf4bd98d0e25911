package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/zzenonn/zhost/internal/domain"
	zerrors "github.com/zzenonn/zhost/internal/errors"
)

// S3API is the subset of the S3 client the repository uses.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3ObjectRepository manages S3 interactions for objects.
type S3ObjectRepository struct {
	client S3API
}

// NewS3ObjectRepository initializes a new S3ObjectRepository.
func NewS3ObjectRepository(client S3API) S3ObjectRepository {
	return S3ObjectRepository{
		client: client,
	}
}

// GetStorageType returns the object store type.
func (r *S3ObjectRepository) GetStorageType() string {
	return string(S3Type)
}

// GetObject reads a whole object and its content type from S3
func (r *S3ObjectRepository) GetObject(ctx context.Context, bucket, key string) (domain.ObjectContent, error) {
	result, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return domain.ObjectContent{}, classifyS3Error(err)
	}
	defer result.Body.Close()

	body, err := io.ReadAll(result.Body)
	if err != nil {
		return domain.ObjectContent{}, fmt.Errorf("failed to read s3://%s/%s: %w", bucket, key, err)
	}

	return domain.ObjectContent{
		Body:           body,
		ContentType:    aws.ToString(result.ContentType),
		HasContentType: result.ContentType != nil,
		Bucket:         bucket,
		Key:            key,
	}, nil
}

// classifyS3Error turns an SDK error into a BackendError with the S3 error code
func classifyS3Error(err error) error {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return &BackendError{Backend: "s3", Code: "NoSuchKey", Message: noSuchKey.ErrorMessage(), Err: zerrors.ErrObjectNotFound}
	}
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return &BackendError{Backend: "s3", Code: "NoSuchBucket", Message: noSuchBucket.ErrorMessage(), Err: zerrors.ErrObjectNotFound}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		backendErr := &BackendError{Backend: "s3", Code: apiErr.ErrorCode(), Message: apiErr.ErrorMessage(), Err: err}
		if apiErr.ErrorCode() == "NotFound" {
			backendErr.Err = zerrors.ErrObjectNotFound
		}
		return backendErr
	}

	return &BackendError{Backend: "s3", Code: "Unknown", Message: err.Error(), Err: err}
}
