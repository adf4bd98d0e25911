package service_test

import (
	"context"
	"sync"

	"github.com/zzenonn/zhost/internal/domain"
	zerrors "github.com/zzenonn/zhost/internal/errors"
	"github.com/zzenonn/zhost/internal/repository/objectstore"
)

var errObjectNotFound = zerrors.ErrObjectNotFound

// mockObjectRepository is an in-memory storage backend keyed by bucket/key.
type mockObjectRepository struct {
	mu      sync.Mutex
	objects map[string]domain.ObjectContent
	errs    map[string]error
	calls   int
}

func newMockObjectRepository() *mockObjectRepository {
	return &mockObjectRepository{
		objects: make(map[string]domain.ObjectContent),
		errs:    make(map[string]error),
	}
}

func (m *mockObjectRepository) put(bucket, key, contentType, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = domain.ObjectContent{
		Body:           []byte(body),
		ContentType:    contentType,
		HasContentType: contentType != "",
		Bucket:         bucket,
		Key:            key,
	}
}

func (m *mockObjectRepository) fail(bucket, key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[bucket+"/"+key] = err
}

func (m *mockObjectRepository) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockObjectRepository) GetObject(ctx context.Context, bucket, key string) (domain.ObjectContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err, ok := m.errs[bucket+"/"+key]; ok {
		return domain.ObjectContent{}, err
	}
	content, ok := m.objects[bucket+"/"+key]
	if !ok {
		return domain.ObjectContent{}, &objectstore.BackendError{Backend: "s3", Code: "NoSuchKey", Err: errObjectNotFound}
	}
	return content, nil
}

func (m *mockObjectRepository) GetStorageType() string {
	return "s3"
}

// mockMappingSource returns a fixed mapping and counts loads.
type mockMappingSource struct {
	mapping domain.HostMapping
	err     error
	loads   int
}

func (m *mockMappingSource) LoadMappings(ctx context.Context) (domain.HostMapping, error) {
	m.loads++
	return m.mapping, m.err
}

func (m *mockMappingSource) Name() string {
	return "mock"
}
