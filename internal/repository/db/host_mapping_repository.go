package db

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	log "github.com/sirupsen/logrus"

	"github.com/zzenonn/zhost/internal/domain"
	zerrors "github.com/zzenonn/zhost/internal/errors"
)

// DynamoDBAPI is the subset of the DynamoDB client the repository uses.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// HostMappingRepository manages DynamoDB interactions for host mappings.
type HostMappingRepository struct {
	client    DynamoDBAPI
	tableName string
}

// NewHostMappingRepository initializes a new HostMappingRepository.
func NewHostMappingRepository(client DynamoDBAPI, tableName string) HostMappingRepository {
	return HostMappingRepository{
		client:    client,
		tableName: tableName,
	}
}

// PutMapping stores or replaces the bucket for a host.
func (repo *HostMappingRepository) PutMapping(ctx context.Context, record domain.HostMappingRecord) (domain.HostMappingRecord, error) {
	if record.Host == "" || record.Bucket == "" {
		return domain.HostMappingRecord{}, zerrors.ErrMissingRequiredFields
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return domain.HostMappingRecord{}, fmt.Errorf("failed to marshal host mapping: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(repo.tableName),
		Item:      item,
	}

	if _, err := repo.client.PutItem(ctx, input); err != nil {
		return domain.HostMappingRecord{}, fmt.Errorf("failed to put host mapping: %w", err)
	}

	return record, nil
}

// GetMapping retrieves the mapping for a host.
func (repo *HostMappingRepository) GetMapping(ctx context.Context, host string) (domain.HostMappingRecord, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(repo.tableName),
		Key: map[string]types.AttributeValue{
			"host": &types.AttributeValueMemberS{Value: host},
		},
	}

	result, err := repo.client.GetItem(ctx, input)
	if err != nil {
		return domain.HostMappingRecord{}, fmt.Errorf("failed to get host mapping: %w", err)
	}

	if result.Item == nil {
		return domain.HostMappingRecord{}, fmt.Errorf("%w: %s", zerrors.ErrHostNotMapped, host)
	}

	var record domain.HostMappingRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return domain.HostMappingRecord{}, fmt.Errorf("failed to unmarshal host mapping: %w", err)
	}

	return record, nil
}

// ListMappings scans the whole table.
func (repo *HostMappingRepository) ListMappings(ctx context.Context) ([]domain.HostMappingRecord, error) {
	paginator := dynamodb.NewScanPaginator(repo.client, &dynamodb.ScanInput{
		TableName: aws.String(repo.tableName),
	})

	var records []domain.HostMappingRecord
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan host mappings: %w", err)
		}

		var pageRecords []domain.HostMappingRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &pageRecords); err != nil {
			return nil, fmt.Errorf("failed to unmarshal host mappings: %w", err)
		}
		records = append(records, pageRecords...)
	}

	return records, nil
}

// DeleteMapping removes the mapping for a host.
func (repo *HostMappingRepository) DeleteMapping(ctx context.Context, host string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(repo.tableName),
		Key: map[string]types.AttributeValue{
			"host": &types.AttributeValueMemberS{Value: host},
		},
	}

	if _, err := repo.client.DeleteItem(ctx, input); err != nil {
		return fmt.Errorf("failed to delete host mapping: %w", err)
	}
	return nil
}

// LoadMappings reads the table as a mapping source.
func (repo *HostMappingRepository) LoadMappings(ctx context.Context) (domain.HostMapping, error) {
	log.Infof("Reading host mappings from DynamoDB table %s", repo.tableName)

	records, err := repo.ListMappings(ctx)
	if err != nil {
		return nil, zerrors.ConfigError(repo.Name(), err)
	}

	mapping := make(domain.HostMapping, len(records))
	for _, record := range records {
		if record.Host == "" || record.Bucket == "" {
			log.Warnf("Skipping incomplete host mapping %+v", record)
			continue
		}
		mapping[record.Host] = record.Bucket
	}
	return mapping, nil
}

// Name describes the source for logs and errors.
func (repo *HostMappingRepository) Name() string {
	return "dynamodb " + repo.tableName
}
