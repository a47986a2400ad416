package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dharsanguruparan/SchoolHub/internal/config"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS schools (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	address TEXT NOT NULL,
	city TEXT NOT NULL,
	state TEXT NOT NULL,
	contact TEXT NOT NULL,
	email_id TEXT NOT NULL,
	image TEXT
);`

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS schools (
	id INT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	address TEXT NOT NULL,
	city VARCHAR(100) NOT NULL,
	state VARCHAR(100) NOT NULL,
	contact VARCHAR(20) NOT NULL,
	email_id VARCHAR(255) NOT NULL,
	image TEXT
)`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS schools (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	address TEXT NOT NULL,
	city TEXT NOT NULL,
	state TEXT NOT NULL,
	contact TEXT NOT NULL,
	email_id TEXT NOT NULL,
	image TEXT
)`

// EnsureSchema creates the schools table in Postgres if needed. Having the
// migration in code keeps a fresh deployment self-contained.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// EnsureSQLSchema is the database/sql counterpart of EnsureSchema for the
// mysql and sqlite3 drivers.
func EnsureSQLSchema(ctx context.Context, db *sql.DB, driver string) error {
	stmt := mysqlSchema
	if driver == config.DriverSQLite {
		stmt = sqliteSchema
	}
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
