// Package tagging discovers host mappings from S3 bucket tags: every bucket
// tagged with the configured key serves the host(s) named in the tag value.
package tagging

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi/types"
	log "github.com/sirupsen/logrus"

	"github.com/zzenonn/zhost/internal/domain"
	zerrors "github.com/zzenonn/zhost/internal/errors"
)

const s3ARNPrefix = "arn:aws:s3:::"

// TaggingAPI is the subset of the Resource Groups Tagging API client the source uses.
type TaggingAPI interface {
	GetResources(ctx context.Context, params *resourcegroupstaggingapi.GetResourcesInput, optFns ...func(*resourcegroupstaggingapi.Options)) (*resourcegroupstaggingapi.GetResourcesOutput, error)
}

type TagSource struct {
	client TaggingAPI
	tagKey string
}

func NewTagSource(client TaggingAPI, tagKey string) *TagSource {
	return &TagSource{client: client, tagKey: tagKey}
}

func NewTagSourceFromConfig(awsConfig aws.Config, tagKey string) *TagSource {
	return NewTagSource(resourcegroupstaggingapi.NewFromConfig(awsConfig), tagKey)
}

// LoadMappings lists tagged S3 buckets. A tag value may name several hosts
// separated by commas; a host claimed by two buckets is a configuration error.
func (s *TagSource) LoadMappings(ctx context.Context) (domain.HostMapping, error) {
	if s.tagKey == "" {
		return nil, zerrors.ConfigError(s.Name(), zerrors.ConfigNotSetError("mappings.tag_key"))
	}
	log.Infof("Discovering host mappings from S3 buckets tagged %s", s.tagKey)

	paginator := resourcegroupstaggingapi.NewGetResourcesPaginator(s.client, &resourcegroupstaggingapi.GetResourcesInput{
		ResourceTypeFilters: []string{"s3"},
		TagFilters:          []types.TagFilter{{Key: aws.String(s.tagKey)}},
	})

	mapping := make(domain.HostMapping)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, zerrors.ConfigError(s.Name(), fmt.Errorf("listing tagged resources: %w", err))
		}

		for _, resource := range page.ResourceTagMappingList {
			bucket, ok := strings.CutPrefix(aws.ToString(resource.ResourceARN), s3ARNPrefix)
			if !ok || bucket == "" || strings.Contains(bucket, "/") {
				log.Debugf("Ignoring tagged resource %s", aws.ToString(resource.ResourceARN))
				continue
			}

			for _, host := range s.hostsFromTags(resource.Tags) {
				if existing, taken := mapping[host]; taken && existing != bucket {
					return nil, zerrors.ConfigError(s.Name(), fmt.Errorf("host %s is tagged on both %s and %s", host, existing, bucket))
				}
				mapping[host] = bucket
			}
		}
	}

	return mapping, nil
}

func (s *TagSource) hostsFromTags(tags []types.Tag) []string {
	var hosts []string
	for _, tag := range tags {
		if aws.ToString(tag.Key) != s.tagKey {
			continue
		}
		for _, host := range strings.Split(aws.ToString(tag.Value), ",") {
			if host = strings.TrimSpace(host); host != "" {
				hosts = append(hosts, host)
			}
		}
	}
	return hosts
}

func (s *TagSource) Name() string {
	return "tags " + s.tagKey
}
