package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/SchoolHub/internal/config"
)

func TestDSNPostgres(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   config.DriverPostgres,
		DBHost:     "db",
		DBPort:     5432,
		DBUser:     "school",
		DBPassword: "p@ss",
		DBName:     "schools",
	}
	assert.Equal(t, "postgres://school:p%40ss@db:5432/schools", DSN(cfg))
}

func TestDSNMySQL(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   config.DriverMySQL,
		DBHost:     "127.0.0.1",
		DBPort:     3306,
		DBUser:     "root",
		DBPassword: "secret",
		DBName:     "schools",
	}
	parsed, err := mysql.ParseDSN(DSN(cfg))
	require.NoError(t, err)
	assert.Equal(t, "root", parsed.User)
	assert.Equal(t, "secret", parsed.Passwd)
	assert.Equal(t, "127.0.0.1:3306", parsed.Addr)
	assert.Equal(t, "schools", parsed.DBName)
	assert.True(t, parsed.ParseTime)
}

func TestDSNOverrideAndSQLite(t *testing.T) {
	assert.Equal(t, "postgres://x", DSN(&config.Config{DBDriver: config.DriverPostgres, DatabaseURL: "postgres://x"}))
	assert.Equal(t, "/tmp/s.db", DSN(&config.Config{DBDriver: config.DriverSQLite, DBPath: "/tmp/s.db"}))
	assert.Empty(t, DSN(&config.Config{DBDriver: config.DriverMemory}))
}

func TestOpenSQLCreatesSQLiteDirAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "schools.db")
	ctx := context.Background()

	db, err := OpenSQL(ctx, config.DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, EnsureSQLSchema(ctx, db, config.DriverSQLite))
	// second run is a no-op
	require.NoError(t, EnsureSQLSchema(ctx, db, config.DriverSQLite))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schools").Scan(&n))
	assert.Zero(t, n)
}
