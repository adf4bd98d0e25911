// Package paramstore reads the host mapping table from an SSM parameter
// holding the same JSON document as the mapping file.
package paramstore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	log "github.com/sirupsen/logrus"

	"github.com/zzenonn/zhost/internal/domain"
	zerrors "github.com/zzenonn/zhost/internal/errors"
)

// SSMAPI is the subset of the SSM client the source uses.
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SSMSource struct {
	client SSMAPI
	name   string
}

func NewSSMSource(client SSMAPI, name string) *SSMSource {
	return &SSMSource{client: client, name: name}
}

func NewSSMSourceFromConfig(awsConfig aws.Config, name string) *SSMSource {
	return NewSSMSource(ssm.NewFromConfig(awsConfig), name)
}

// LoadMappings fetches and decodes the parameter value.
func (s *SSMSource) LoadMappings(ctx context.Context) (domain.HostMapping, error) {
	if s.name == "" {
		return nil, zerrors.ConfigError(s.Name(), zerrors.ConfigNotSetError("mappings.parameter"))
	}
	log.Infof("Reading host mappings from SSM parameter %s", s.name)

	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(s.name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, zerrors.ConfigError(s.Name(), fmt.Errorf("retrieving SSM parameter: %w", err))
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return nil, zerrors.ConfigError(s.Name(), fmt.Errorf("parameter has no value"))
	}

	mapping, err := domain.ParseHostMapping([]byte(aws.ToString(out.Parameter.Value)))
	if err != nil {
		return nil, zerrors.ConfigError(s.Name(), err)
	}
	return mapping, nil
}

func (s *SSMSource) Name() string {
	return "ssm " + s.name
}
