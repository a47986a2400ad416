package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, 3306, cfg.DBPort)
	assert.Equal(t, BlobLocal, cfg.BlobStrategy)
	assert.Equal(t, "/schoolImages/", cfg.StaticPrefix)
	assert.Equal(t, CleanupInline, cfg.CleanupMode)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SCHOOLHUB_DB_DRIVER", "POSTGRES")
	t.Setenv("SCHOOLHUB_BLOB_STRATEGY", "s3")
	t.Setenv("SCHOOLHUB_S3_USE_SSL", "true")
	t.Setenv("SCHOOLHUB_STATIC_PREFIX", "images")
	t.Setenv("SCHOOLHUB_API_URL", "http://example.test/")

	cfg, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, BlobS3, cfg.BlobStrategy)
	assert.True(t, cfg.S3UseSSL)
	assert.Equal(t, "/images/", cfg.StaticPrefix)
	assert.Equal(t, "http://example.test", cfg.APIURL)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	contents := "DB_DRIVER=sqlite3\nDB_PATH=/tmp/schools.db\nLOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(contents), 0o600))
	t.Setenv("SCHOOLHUB_LOG_LEVEL", "warn")

	cfg, err := load(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "/tmp/schools.db", cfg.DBPath)
	assert.Equal(t, "warn", cfg.LogLevel, "environment wins over .env")
}

func TestLoadRejectsUnknownValues(t *testing.T) {
	t.Setenv("SCHOOLHUB_DB_DRIVER", "oracle")
	_, err := load(viper.New(), t.TempDir())
	assert.Error(t, err)

	t.Setenv("SCHOOLHUB_DB_DRIVER", "memory")
	t.Setenv("SCHOOLHUB_BLOB_STRATEGY", "ftp")
	_, err = load(viper.New(), t.TempDir())
	assert.Error(t, err)

	t.Setenv("SCHOOLHUB_BLOB_STRATEGY", "local")
	t.Setenv("SCHOOLHUB_CLEANUP_MODE", "queue")
	_, err = load(viper.New(), t.TempDir())
	assert.ErrorContains(t, err, "REDIS_ADDR")
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(&Config{LogLevel: "debug", LogFormat: "json"})
	assert.Equal(t, "debug", logger.GetLevel().String())

	logger = NewLogger(&Config{LogLevel: "nonsense"})
	assert.Equal(t, "info", logger.GetLevel().String())
}
