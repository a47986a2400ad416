package repository

import (
	"context"
	"fmt"

	"github.com/dharsanguruparan/SchoolHub/internal/config"
	"github.com/dharsanguruparan/SchoolHub/internal/database"
)

// Open connects to the backend named by cfg.DBDriver, verifies connectivity,
// ensures the schools table exists and returns the repository together with a
// function that drains and closes the underlying pool.
//
// Supported drivers:
//
//	"postgres" - pgx pool
//	"mysql"    - database/sql with go-sql-driver/mysql
//	"sqlite3"  - database/sql with mattn/go-sqlite3 at DB_PATH
//	"memory"   - in-process map, lost on exit
func Open(ctx context.Context, cfg *config.Config) (Repository, func(), error) {
	dsn := database.DSN(cfg)
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := database.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := database.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return NewPostgresRepository(pool), pool.Close, nil
	case config.DriverMySQL, config.DriverSQLite:
		db, err := database.OpenSQL(ctx, cfg.DBDriver, dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := database.EnsureSQLSchema(ctx, db, cfg.DBDriver); err != nil {
			db.Close()
			return nil, nil, err
		}
		return NewSQLRepository(db), func() { db.Close() }, nil
	case config.DriverMemory:
		return NewMemoryRepository(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown db driver: %q", cfg.DBDriver)
	}
}
