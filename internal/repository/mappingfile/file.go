// Package mappingfile reads the host mapping table from a JSON file shipped
// next to the binary.
package mappingfile

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/zzenonn/zhost/internal/domain"
	zerrors "github.com/zzenonn/zhost/internal/errors"
)

// DefaultFilename is the conventional name of the mapping file.
const DefaultFilename = "mappings.json"

// FileSource loads host mappings from a JSON object of {host: bucket} pairs.
type FileSource struct {
	path string
}

// NewFileSource creates a source for path, falling back to DefaultFilename.
func NewFileSource(path string) *FileSource {
	if path == "" {
		path = DefaultFilename
	}
	return &FileSource{path: path}
}

// LoadMappings reads and decodes the mapping file.
func (s *FileSource) LoadMappings(ctx context.Context) (domain.HostMapping, error) {
	log.Infof("Reading host mapping file %s", s.path)

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, zerrors.ConfigError(s.Name(), err)
	}

	mapping, err := domain.ParseHostMapping(data)
	if err != nil {
		return nil, zerrors.ConfigError(s.Name(), err)
	}
	return mapping, nil
}

// Name describes the source for logs and errors.
func (s *FileSource) Name() string {
	return "file " + s.path
}
