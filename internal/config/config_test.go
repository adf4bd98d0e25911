package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCacheSize(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"0", 0},
		{"128", 128},
		{" 64 ", 64},
		{"lots", 0},
		{"-5", 0},
		{"1.5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCacheSize(tt.raw))
		})
	}
}

func TestFromViper_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())

	require.NoError(t, setupViper("", nil))
	cfg := fromViper()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, MappingSourceFile, cfg.Mappings.Source)
	assert.Equal(t, "mappings.json", cfg.Mappings.File)
	assert.Equal(t, 0, cfg.CacheSize)
	assert.False(t, cfg.Override.Enabled())
	assert.Equal(t, ResponseFormatObject, cfg.ResponseFormat)
}

func TestFromViper_Environment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())

	t.Setenv("OVERRIDE_HOST", "example.com")
	t.Setenv("OVERRIDE_BUCKET", "bkt1")
	t.Setenv("CACHE_SIZE", "not-a-number")
	t.Setenv("MAPPINGS_SOURCE", "DynamoDB")

	require.NoError(t, setupViper("", nil))
	cfg := fromViper()

	assert.True(t, cfg.Override.Enabled())
	assert.Equal(t, "example.com", cfg.Override.Host)
	assert.Equal(t, "bkt1", cfg.Override.Bucket)
	assert.Equal(t, 0, cfg.CacheSize)
	assert.Equal(t, MappingSourceDynamoDB, cfg.Mappings.Source)
}

func TestFromViper_ConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "zhost.yaml")
	content := "cache:\n  size: 32\nmappings:\n  file: /etc/zhost/mappings.json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, setupViper(path, nil))
	cfg := fromViper()

	assert.Equal(t, 32, cfg.CacheSize)
	assert.Equal(t, "/etc/zhost/mappings.json", cfg.Mappings.File)
}
