package migrate

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	HostMappingsTableName = "host_mappings"
	HostMappingsVersion   = "20261016000000_host_mappings_table"
)

// CreateHostMappingsTable creates the table read by the dynamodb mapping source.
type CreateHostMappingsTable struct {
	Table string
}

func (m *CreateHostMappingsTable) Version() string {
	return HostMappingsVersion
}

func (m *CreateHostMappingsTable) TableName() string {
	if m.Table == "" {
		return HostMappingsTableName
	}
	return m.Table
}

func (m *CreateHostMappingsTable) Up(ctx context.Context, client *dynamodb.Client) error {
	input := &dynamodb.CreateTableInput{
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String("host"),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String("host"),
				KeyType:       types.KeyTypeHash, // Partition Key
			},
		},
		TableName:   aws.String(m.TableName()),
		BillingMode: types.BillingModePayPerRequest,
		Tags: []types.Tag{
			{
				Key:   aws.String("Purpose"),
				Value: aws.String("StaticHostMappings"),
			},
		},
	}

	_, err := client.CreateTable(ctx, input)
	if err != nil {
		return err
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	return waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(m.TableName()),
	}, 5*time.Minute)
}

func (m *CreateHostMappingsTable) Down(ctx context.Context, client *dynamodb.Client) error {
	input := &dynamodb.DeleteTableInput{
		TableName: aws.String(m.TableName()),
	}

	_, err := client.DeleteTable(ctx, input)
	return err
}
