// Package app wires configuration into a ready router, shared by the CLI and
// the Lambda entry point.
package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/zzenonn/zhost/internal/config"
	"github.com/zzenonn/zhost/internal/metrics"
	"github.com/zzenonn/zhost/internal/repository/db"
	"github.com/zzenonn/zhost/internal/repository/mappingfile"
	"github.com/zzenonn/zhost/internal/repository/objectstore"
	"github.com/zzenonn/zhost/internal/repository/paramstore"
	"github.com/zzenonn/zhost/internal/repository/tagging"
	"github.com/zzenonn/zhost/internal/service"
)

// App holds the long-lived components of one process.
type App struct {
	Config   *config.Config
	Metrics  *metrics.Metrics
	Mappings *service.MappingStore
	Fetcher  *service.ObjectFetcher
	Router   *service.Router
}

// New builds the mapping store, object fetcher and router described by cfg.
func New(cfg *config.Config) (*App, error) {
	source, err := NewMappingSource(cfg)
	if err != nil {
		return nil, err
	}
	repo := objectstore.NewRouterFromConfig(cfg.AwsConfig, cfg.GcsClient)
	return Assemble(cfg, source, repo), nil
}

// Assemble builds an App from an already chosen mapping source and storage backend.
func Assemble(cfg *config.Config, source service.MappingSource, repo objectstore.ObjectRepository) *App {
	m := metrics.New()
	mappings := service.NewMappingStore(source, cfg.Override, m)
	fetcher := service.NewObjectFetcher(repo, service.NewObjectCache(cfg.CacheSize), m)

	if cfg.Override.Enabled() {
		log.Infof("Host override active: every request is served from %s", cfg.Override.Bucket)
	}
	if cfg.CacheSize <= 0 {
		log.Info("Object cache disabled")
	}

	return &App{
		Config:   cfg,
		Metrics:  m,
		Mappings: mappings,
		Fetcher:  fetcher,
		Router:   service.NewRouter(mappings, fetcher, m),
	}
}

// NewMappingSource picks the mapping source named by mappings.source.
func NewMappingSource(cfg *config.Config) (service.MappingSource, error) {
	switch cfg.Mappings.Source {
	case config.MappingSourceFile, "":
		return mappingfile.NewFileSource(cfg.Mappings.File), nil
	case config.MappingSourceDynamoDB:
		dynamoDb, err := db.NewDatabase(cfg.AwsConfig)
		if err != nil {
			return nil, err
		}
		repo := db.NewHostMappingRepository(dynamoDb.Client, cfg.Mappings.Table)
		return &repo, nil
	case config.MappingSourceSSM:
		return paramstore.NewSSMSourceFromConfig(cfg.AwsConfig, cfg.Mappings.Parameter), nil
	case config.MappingSourceTags:
		return tagging.NewTagSourceFromConfig(cfg.AwsConfig, cfg.Mappings.TagKey), nil
	default:
		return nil, fmt.Errorf("unsupported mapping source: %s", cfg.Mappings.Source)
	}
}

// Warm loads the mapping table up front so a broken configuration stops the
// process before the first request.
func (a *App) Warm(ctx context.Context) error {
	_, err := a.Mappings.Resolve(ctx)
	return err
}
