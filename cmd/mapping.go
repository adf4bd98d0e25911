package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/zzenonn/zhost/internal/domain"
	"github.com/zzenonn/zhost/internal/repository/db"
	"github.com/zzenonn/zhost/internal/repository/objectstore"
)

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Manage host mappings in DynamoDB",
	Long:  "CRUD operations on the DynamoDB host mapping table read by the dynamodb mapping source",
}

func mappingRepository() (*db.HostMappingRepository, error) {
	dynamoDb, err := db.NewDatabase(cfg.AwsConfig)
	if err != nil {
		return nil, err
	}
	repo := db.NewHostMappingRepository(dynamoDb.Client, cfg.Mappings.Table)
	return &repo, nil
}

var mappingPutCmd = &cobra.Command{
	Use:   "put [host] [bucket]",
	Short: "Map a host to a bucket (s3://name, gs://name or a bare S3 name)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		host, bucket := args[0], args[1]

		if _, err := objectstore.ParseBucketConfig(bucket); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		repo, err := mappingRepository()
		if err != nil {
			fmt.Printf("Failed to connect to the database: %v\n", err)
			return
		}

		record, err := repo.PutMapping(context.Background(), domain.HostMappingRecord{Host: host, Bucket: bucket})
		if err != nil {
			fmt.Printf("Error saving mapping: %v\n", err)
			return
		}
		fmt.Printf("Mapped %s -> %s\n", record.Host, record.Bucket)
	},
}

var mappingGetCmd = &cobra.Command{
	Use:   "get [host]",
	Short: "Show the bucket mapped to a host",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := mappingRepository()
		if err != nil {
			fmt.Printf("Failed to connect to the database: %v\n", err)
			return
		}

		record, err := repo.GetMapping(context.Background(), args[0])
		if err != nil {
			fmt.Printf("Error reading mapping: %v\n", err)
			return
		}
		fmt.Printf("%s -> %s\n", record.Host, record.Bucket)
	},
}

var mappingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all host mappings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := mappingRepository()
		if err != nil {
			fmt.Printf("Failed to connect to the database: %v\n", err)
			return
		}

		records, err := repo.ListMappings(context.Background())
		if err != nil {
			fmt.Printf("Error listing mappings: %v\n", err)
			return
		}

		sort.Slice(records, func(i, j int) bool { return records[i].Host < records[j].Host })
		for _, record := range records {
			fmt.Printf("%s -> %s\n", record.Host, record.Bucket)
		}
	},
}

var mappingDeleteCmd = &cobra.Command{
	Use:   "delete [host]",
	Short: "Remove the mapping for a host",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := mappingRepository()
		if err != nil {
			fmt.Printf("Failed to connect to the database: %v\n", err)
			return
		}

		if err := repo.DeleteMapping(context.Background(), args[0]); err != nil {
			fmt.Printf("Error deleting mapping: %v\n", err)
			return
		}
		fmt.Printf("Mapping deleted: %s\n", args[0])
	},
}

func init() {
	mappingCmd.AddCommand(mappingPutCmd)
	mappingCmd.AddCommand(mappingGetCmd)
	mappingCmd.AddCommand(mappingListCmd)
	mappingCmd.AddCommand(mappingDeleteCmd)
	rootCmd.AddCommand(mappingCmd)
}
