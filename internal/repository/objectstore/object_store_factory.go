package objectstore

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/zzenonn/zhost/internal/domain"
	zerrors "github.com/zzenonn/zhost/internal/errors"
)

// RepositoryType represents the type of object storage
type RepositoryType string

const (
	S3Type  RepositoryType = "s3"
	GCSType RepositoryType = "gcs"
)

// BucketConfig is a parsed bucket identifier from the mapping table
type BucketConfig struct {
	Name string
	Type RepositoryType
}

// Router dispatches lookups to the backend named by the bucket identifier.
// It implements ObjectRepository itself, so callers never see the scheme.
type Router struct {
	repositories map[RepositoryType]ObjectRepository
}

// NewRouter creates a router over the given backends, keyed by their storage type
func NewRouter(repos ...ObjectRepository) *Router {
	r := &Router{repositories: make(map[RepositoryType]ObjectRepository, len(repos))}
	for _, repo := range repos {
		r.repositories[RepositoryType(repo.GetStorageType())] = repo
	}
	return r
}

// NewRouterFromConfig wires an S3 backend from the AWS config and, when a GCS
// client is available, a GCS backend.
func NewRouterFromConfig(awsConfig aws.Config, gcsClient *storage.Client) *Router {
	s3Repo := NewS3ObjectRepository(s3.NewFromConfig(awsConfig))
	repos := []ObjectRepository{&s3Repo}
	if gcsClient != nil {
		gcsRepo := NewGCSObjectRepository(gcsClient)
		repos = append(repos, &gcsRepo)
	}
	return NewRouter(repos...)
}

// GetObject parses bucket, picks the matching backend and reads key from it
func (r *Router) GetObject(ctx context.Context, bucket, key string) (domain.ObjectContent, error) {
	repo, cfg, err := r.RepositoryFor(bucket)
	if err != nil {
		return domain.ObjectContent{}, err
	}

	content, err := repo.GetObject(ctx, cfg.Name, key)
	if err != nil {
		return domain.ObjectContent{}, err
	}
	// Provenance is reported with the identifier the caller used.
	content.Bucket = bucket
	return content, nil
}

// RepositoryFor returns the backend serving bucket along with the parsed bucket
func (r *Router) RepositoryFor(bucket string) (ObjectRepository, BucketConfig, error) {
	cfg, err := ParseBucketConfig(bucket)
	if err != nil {
		return nil, BucketConfig{}, err
	}
	repo, ok := r.repositories[cfg.Type]
	if !ok {
		return nil, BucketConfig{}, fmt.Errorf("%w: %s", zerrors.ErrUnsupportedBackend, cfg.Type)
	}
	return repo, cfg, nil
}

// GetStorageType returns the storage type
func (r *Router) GetStorageType() string {
	return "router"
}

// ParseBucketConfig parses bucket configuration from string
// Formats: "s3://bucket-name", "gs://bucket-name", "s3:bucket-name", or "bucket-name" (defaults to S3)
func ParseBucketConfig(bucketStr string) (BucketConfig, error) {
	bucketStr = strings.TrimSpace(bucketStr)
	if bucketStr == "" {
		return BucketConfig{}, fmt.Errorf("bucket name cannot be empty")
	}

	// Handle URI format (s3://, gs://)
	if strings.Contains(bucketStr, "://") {
		scheme, bucketName, _ := strings.Cut(bucketStr, "://")
		return newBucketConfig(scheme, bucketName)
	}

	// Handle colon format (s3:bucket-name)
	scheme, bucketName, found := strings.Cut(bucketStr, ":")
	if !found {
		// Bare names are S3 buckets
		return BucketConfig{
			Name: bucketStr,
			Type: S3Type,
		}, nil
	}

	return newBucketConfig(scheme, bucketName)
}

func newBucketConfig(scheme, bucketName string) (BucketConfig, error) {
	bucketName = strings.TrimSpace(bucketName)
	if bucketName == "" {
		return BucketConfig{}, fmt.Errorf("bucket name cannot be empty")
	}

	var repoType RepositoryType
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "s3":
		repoType = S3Type
	case "gs", "gcs":
		repoType = GCSType
	default:
		return BucketConfig{}, fmt.Errorf("%w: %s", zerrors.ErrUnsupportedBackend, scheme)
	}

	return BucketConfig{
		Name: bucketName,
		Type: repoType,
	}, nil
}
