package service

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/zzenonn/zhost/internal/domain"
	zerrors "github.com/zzenonn/zhost/internal/errors"
	"github.com/zzenonn/zhost/internal/metrics"
)

// MappingSource loads the host mapping table from wherever it is kept.
// Implementations wrap failures in errors.ErrConfig.
type MappingSource interface {
	LoadMappings(ctx context.Context) (domain.HostMapping, error)
	Name() string
}

// MappingStore resolves hosts to buckets. The table is loaded at most once per
// process; there is no reload, a restart picks up changes.
type MappingStore struct {
	source   MappingSource
	override domain.Override
	metrics  *metrics.Metrics

	once    sync.Once
	mapping domain.HostMapping
	err     error
}

// NewMappingStore creates a store over source. When override is enabled the
// source is never read.
func NewMappingStore(source MappingSource, override domain.Override, m *metrics.Metrics) *MappingStore {
	return &MappingStore{
		source:   source,
		override: override,
		metrics:  m,
	}
}

// Resolve returns the mapping table, loading it on first use. A load failure
// is remembered and returned to every later caller.
func (s *MappingStore) Resolve(ctx context.Context) (domain.HostMapping, error) {
	if s.override.Enabled() {
		return s.override.Mapping(), nil
	}

	s.once.Do(func() {
		if s.source == nil {
			s.err = zerrors.ConfigError("mappings", fmt.Errorf("no mapping source configured"))
			return
		}

		s.mapping, s.err = s.source.LoadMappings(ctx)
		if s.err != nil {
			log.Errorf("Failed to load host mappings from %s: %v", s.source.Name(), s.err)
			return
		}
		log.Infof("Loaded %d host mappings from %s", len(s.mapping), s.source.Name())
		s.metrics.SetMappings(len(s.mapping))
	})

	return s.mapping, s.err
}

// Bucket returns the bucket serving host. With an override configured the
// requested host is ignored.
func (s *MappingStore) Bucket(ctx context.Context, host string) (string, error) {
	if s.override.Enabled() {
		return s.override.Bucket, nil
	}

	mapping, err := s.Resolve(ctx)
	if err != nil {
		return "", err
	}

	bucket, ok := mapping.Lookup(host)
	if !ok {
		return "", fmt.Errorf("%w: %s", zerrors.ErrHostNotMapped, host)
	}
	return bucket, nil
}
