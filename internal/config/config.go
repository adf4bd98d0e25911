package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zzenonn/zhost/internal/domain"
)

// Mapping source names accepted by mappings.source.
const (
	MappingSourceFile     = "file"
	MappingSourceDynamoDB = "dynamodb"
	MappingSourceSSM      = "ssm"
	MappingSourceTags     = "tags"
)

// Response formats accepted by response.format.
const (
	ResponseFormatObject = "object"
	ResponseFormatText   = "text"
)

// MappingsConfig selects where the host mapping table is read from
type MappingsConfig struct {
	Source    string `yaml:"source"`
	File      string `yaml:"file"`
	Table     string `yaml:"table"`
	Parameter string `yaml:"parameter"`
	TagKey    string `yaml:"tag_key"`
}

// Config holds the application configuration
type Config struct {
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	Mappings       MappingsConfig
	Override       domain.Override
	CacheSize      int    `yaml:"cache_size"`
	ResponseFormat string `yaml:"response_format"`
	ListenAddr     string `yaml:"listen_addr"`
	// AwsConfig is shared by the S3, DynamoDB, SSM and tagging clients.
	AwsConfig aws.Config
	// GcsClient is only created when gcs.enabled is set; gs:// buckets are
	// rejected otherwise.
	GcsClient *storage.Client
}

// LoadConfig loads configuration from config.yaml, environment variables, or CLI flags
// Priority: CLI flags > Environment variables > config.yaml > defaults
func LoadConfig(configPath string, rootCmd *cobra.Command) (*Config, error) {
	if err := setupViper(configPath, rootCmd); err != nil {
		return nil, err
	}

	awsConfig, err := loadAWSConfig()
	if err != nil {
		return nil, err
	}

	var gcsClient *storage.Client
	if viper.GetBool("gcs.enabled") {
		gcsClient, err = loadGCSClient()
		if err != nil {
			return nil, err
		}
	}

	cfg := fromViper()
	cfg.AwsConfig = awsConfig
	cfg.GcsClient = gcsClient
	return cfg, nil
}

// setupViper configures Viper with defaults, paths, and bindings
func setupViper(configPath string, rootCmd *cobra.Command) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	}

	setDefaults()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if rootCmd != nil {
		if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
			return fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("mappings.source", MappingSourceFile)
	viper.SetDefault("mappings.file", "mappings.json")
	viper.SetDefault("mappings.table", "host_mappings")
	viper.SetDefault("mappings.parameter", "")
	viper.SetDefault("mappings.tag_key", "static-host")
	viper.SetDefault("override.host", "")
	viper.SetDefault("override.bucket", "")
	viper.SetDefault("cache.size", "0")
	viper.SetDefault("response.format", ResponseFormatObject)
	viper.SetDefault("listen_addr", ":8080")
	viper.SetDefault("gcs.enabled", false)
}

// fromViper builds a Config from the current Viper state, without any cloud clients
func fromViper() *Config {
	return &Config{
		LogLevel:  viper.GetString("log_level"),
		LogFormat: viper.GetString("log_format"),
		Mappings: MappingsConfig{
			Source:    strings.ToLower(viper.GetString("mappings.source")),
			File:      viper.GetString("mappings.file"),
			Table:     viper.GetString("mappings.table"),
			Parameter: viper.GetString("mappings.parameter"),
			TagKey:    viper.GetString("mappings.tag_key"),
		},
		Override: domain.Override{
			Host:   viper.GetString("override.host"),
			Bucket: viper.GetString("override.bucket"),
		},
		CacheSize:      ParseCacheSize(viper.GetString("cache.size")),
		ResponseFormat: strings.ToLower(viper.GetString("response.format")),
		ListenAddr:     viper.GetString("listen_addr"),
	}
}

// ParseCacheSize turns the raw cache.size setting into an entry bound.
// Absent, non-numeric and negative values all mean 0, which disables caching.
func ParseCacheSize(raw string) int {
	size, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || size < 0 {
		return 0
	}
	return size
}

// loadAWSConfig loads AWS SDK configuration
func loadAWSConfig() (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load AWS SDK config: %v", err)
	}
	return cfg, nil
}

// loadGCSClient loads Google Cloud Storage client
func loadGCSClient() (*storage.Client, error) {
	client, err := storage.NewClient(context.Background())
	if err != nil {
		return nil, fmt.Errorf("unable to create GCS client: %v", err)
	}
	return client, nil
}

// SetConfigValue sets a configuration value (used for CLI flags)
func SetConfigValue(key string, value interface{}) {
	viper.Set(key, value)
}
