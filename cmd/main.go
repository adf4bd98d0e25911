package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zzenonn/zhost/internal/app"
	"github.com/zzenonn/zhost/internal/config"
	"github.com/zzenonn/zhost/internal/logging"
	"github.com/zzenonn/zhost/internal/repository/db"
	"github.com/zzenonn/zhost/internal/repository/migrate"
)

var (
	cfg        *config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "zhost",
	Short: "Static site router for many hosts backed by object storage",
	Long:  "zhost maps the Host header of each request to a storage bucket and serves the requested object from it",
}

func init() {
	cobra.OnInitialize(initConfig)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the DynamoDB host mapping table",
	Run: func(cmd *cobra.Command, args []string) {
		dynamoDb, err := db.NewDatabase(cfg.AwsConfig)
		if err != nil {
			fmt.Printf("Failed to connect to the database: %v\n", err)
			return
		}

		migration := &migrate.CreateHostMappingsTable{Table: cfg.Mappings.Table}
		if err := migration.Up(context.Background(), dynamoDb.Client); err != nil {
			fmt.Printf("Failed to create table %s: %v\n", migration.TableName(), err)
			return
		}

		fmt.Printf("Host mapping table %s created (%s)\n", migration.TableName(), migration.Version())
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Delete the DynamoDB host mapping table",
	Run: func(cmd *cobra.Command, args []string) {
		dynamoDb, err := db.NewDatabase(cfg.AwsConfig)
		if err != nil {
			fmt.Printf("Failed to connect to the database: %v\n", err)
			return
		}

		migration := &migrate.CreateHostMappingsTable{Table: cfg.Mappings.Table}
		if err := migration.Down(context.Background(), dynamoDb.Client); err != nil {
			fmt.Printf("Failed to delete table %s: %v\n", migration.TableName(), err)
			return
		}

		fmt.Printf("Host mapping table %s deleted\n", migration.TableName())
	},
}

func initConfig() {
	var err error
	cfg, err = config.LoadConfig(configPath, rootCmd)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logging.InitLogger(cfg)
}

// newApp builds the router and loads the mapping table, exiting when the
// mapping configuration is broken.
func newApp(ctx context.Context) *app.App {
	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	if err := a.Warm(ctx); err != nil {
		log.Fatalf("Failed to load host mappings: %v", err)
	}
	return a
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (default ./config.yaml)")
	rootCmd.PersistentFlags().String("log_level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(downCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
