package objectstore

import (
	"context"
	"fmt"

	"github.com/zzenonn/zhost/internal/domain"
)

// ObjectRepository defines the interface for object storage lookups
type ObjectRepository interface {
	GetObject(ctx context.Context, bucket, key string) (domain.ObjectContent, error)
	GetStorageType() string
}

// BackendError carries the storage backend's own error code so it can be
// logged. Err is errors.ErrObjectNotFound when the backend reported a missing
// object or bucket.
type BackendError struct {
	Backend string
	Code    string
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Backend, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Backend, e.Code, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
