// Package config centralizes how SchoolHub reads its settings and exposes them
// as strongly typed Go values.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents runtime configuration for the service, the worker and the
// CLI. Values come from SCHOOLHUB_* environment variables, optionally seeded
// from a .env file in the working directory. Keys inside the .env file carry no
// prefix (DB_DRIVER=postgres) and lose to the environment.
type Config struct {
	Address        string
	LogLevel       string
	LogFormat      string
	MaxUploadBytes int64

	DBDriver    string
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string
	DBPath      string
	DatabaseURL string

	BlobStrategy string
	UploadDir    string
	StaticPrefix string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Region    string
	S3UseSSL    bool
	S3Bucket    string
	S3PublicURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CleanupMode   string

	APIURL string
}

const (
	envPrefix = "SCHOOLHUB"

	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite3"
	DriverMemory   = "memory"

	BlobLocal = "local"
	BlobS3    = "s3"

	CleanupInline = "inline"
	CleanupQueue  = "queue"

	defaultAddress        = ":8080"
	defaultMaxUploadBytes = 5 << 20 // 5 MiB for the whole multipart body
	defaultMySQLPort      = 3306
	defaultPostgresPort   = 5432
)

// Load reads configuration from the environment falling back to defaults.
func Load() (*Config, error) {
	return load(viper.New(), ".")
}

func load(v *viper.Viper, configDir string) (*Config, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	v.AddConfigPath(configDir)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Address:        v.GetString("ADDRESS"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:         v.GetString("DB_HOST"),
		DBPort:         v.GetInt("DB_PORT"),
		DBUser:         v.GetString("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBName:         v.GetString("DB_NAME"),
		DBPath:         v.GetString("DB_PATH"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		BlobStrategy:   strings.ToLower(v.GetString("BLOB_STRATEGY")),
		UploadDir:      v.GetString("UPLOAD_DIR"),
		StaticPrefix:   v.GetString("STATIC_PREFIX"),
		S3Endpoint:     v.GetString("S3_ENDPOINT"),
		S3AccessKey:    v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:    v.GetString("S3_SECRET_KEY"),
		S3Region:       v.GetString("S3_REGION"),
		S3UseSSL:       v.GetBool("S3_USE_SSL"),
		S3Bucket:       v.GetString("S3_BUCKET"),
		S3PublicURL:    v.GetString("S3_PUBLIC_URL"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		CleanupMode:    strings.ToLower(v.GetString("CLEANUP_MODE")),
		APIURL:         strings.TrimRight(v.GetString("API_URL"), "/"),
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.DBPort <= 0 {
		cfg.DBPort = defaultPort(cfg.DBDriver)
	}
	if !strings.HasPrefix(cfg.StaticPrefix, "/") {
		cfg.StaticPrefix = "/" + cfg.StaticPrefix
	}
	if !strings.HasSuffix(cfg.StaticPrefix, "/") {
		cfg.StaticPrefix += "/"
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ADDRESS", defaultAddress)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", 0)
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "schools")
	v.SetDefault("DB_PATH", "./data/schools.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("BLOB_STRATEGY", BlobLocal)
	v.SetDefault("UPLOAD_DIR", "./public/schoolImages")
	v.SetDefault("STATIC_PREFIX", "/schoolImages/")
	v.SetDefault("S3_ENDPOINT", "localhost:9000")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_USE_SSL", false)
	v.SetDefault("S3_BUCKET", "schools")
	v.SetDefault("S3_PUBLIC_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CLEANUP_MODE", CleanupInline)
	v.SetDefault("API_URL", "http://localhost:8080")
}

func defaultPort(driver string) int {
	if driver == DriverPostgres {
		return defaultPostgresPort
	}
	return defaultMySQLPort
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverMySQL, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unknown db driver %q (supported: postgres, mysql, sqlite3, memory)", c.DBDriver)
	}
	switch c.BlobStrategy {
	case BlobLocal, BlobS3:
	default:
		return fmt.Errorf("unknown blob strategy %q (supported: local, s3)", c.BlobStrategy)
	}
	switch c.CleanupMode {
	case CleanupInline:
	case CleanupQueue:
		if c.RedisAddr == "" {
			return errors.New("cleanup mode queue requires SCHOOLHUB_REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown cleanup mode %q (supported: inline, queue)", c.CleanupMode)
	}
	return nil
}
