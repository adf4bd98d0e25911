package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/zzenonn/zhost/internal/domain"
	zerrors "github.com/zzenonn/zhost/internal/errors"
	"github.com/zzenonn/zhost/internal/metrics"
	"github.com/zzenonn/zhost/internal/repository/objectstore"
)

// ObjectFetcher reads objects from storage through a cache. Only successful
// reads are cached, so an object uploaded after a miss shows up on the next
// request.
type ObjectFetcher struct {
	repo    objectstore.ObjectRepository
	cache   ObjectCache
	metrics *metrics.Metrics
}

// NewObjectFetcher creates a fetcher; a nil cache disables caching.
func NewObjectFetcher(repo objectstore.ObjectRepository, cache ObjectCache, m *metrics.Metrics) *ObjectFetcher {
	if cache == nil {
		cache = noCache{}
	}
	return &ObjectFetcher{
		repo:    repo,
		cache:   cache,
		metrics: m,
	}
}

// ObjectKey turns a request path into a storage key by dropping one leading slash.
func ObjectKey(path string) string {
	key, _ := strings.CutPrefix(path, "/")
	return key
}

// Fetch returns the object at path in bucket. Every backend failure is logged
// and reported as errors.ErrNotFound.
func (f *ObjectFetcher) Fetch(ctx context.Context, bucket, path string) (domain.ObjectContent, error) {
	cacheKey := domain.FetchKey{Bucket: bucket, Path: path}
	if content, ok := f.cache.Get(cacheKey); ok {
		f.metrics.ObserveCache(true)
		log.Debugf("Cache hit for %s", cacheKey)
		return content, nil
	}
	f.metrics.ObserveCache(false)

	key := ObjectKey(path)
	log.Debugf("Reading %s from %s", key, bucket)

	start := time.Now()
	content, err := f.repo.GetObject(ctx, bucket, key)
	f.metrics.ObserveBackend(backendLabel(bucket), time.Since(start))
	if err != nil {
		logBackendError(bucket, key, err)
		return domain.ObjectContent{}, fmt.Errorf("%w: %s/%s", zerrors.ErrNotFound, bucket, key)
	}

	f.cache.Add(cacheKey, content)
	return content, nil
}

func logBackendError(bucket, key string, err error) {
	entry := log.WithFields(log.Fields{"bucket": bucket, "key": key})

	var backendErr *objectstore.BackendError
	if errors.As(err, &backendErr) {
		entry = entry.WithField("code", backendErr.Code)
	}

	if errors.Is(err, zerrors.ErrObjectNotFound) {
		entry.Info("Object not found")
		return
	}
	entry.Warnf("Storage backend error: %v", err)
}

func backendLabel(bucket string) string {
	cfg, err := objectstore.ParseBucketConfig(bucket)
	if err != nil {
		return "unknown"
	}
	return string(cfg.Type)
}
