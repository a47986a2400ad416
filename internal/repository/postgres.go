package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dharsanguruparan/SchoolHub/internal/model"
)

// PostgresRepository stores schools in Postgres through a pgx pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a school and reads back the id assigned by BIGSERIAL.
func (r *PostgresRepository) Create(ctx context.Context, school *model.School) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO schools (name, address, city, state, contact, email_id, image)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, school.Name, school.Address, school.City, school.State, school.Contact, school.EmailID, school.Image).Scan(&school.ID)
	if err != nil {
		return fmt.Errorf("insert school: %w", err)
	}
	return nil
}

// List returns every school ordered by id.
func (r *PostgresRepository) List(ctx context.Context) ([]model.School, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, address, city, state, contact, email_id, image
		FROM schools ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("select schools: %w", err)
	}
	defer rows.Close()
	schools := make([]model.School, 0)
	for rows.Next() {
		var s model.School
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.State, &s.Contact, &s.EmailID, &s.Image); err != nil {
			return nil, fmt.Errorf("scan school: %w", err)
		}
		schools = append(schools, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select schools: %w", err)
	}
	return schools, nil
}

// Get returns a school by id.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (*model.School, error) {
	var s model.School
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, address, city, state, contact, email_id, image
		FROM schools WHERE id=$1
	`, id)
	if err := row.Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.State, &s.Contact, &s.EmailID, &s.Image); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select school: %w", err)
	}
	return &s, nil
}

// Delete removes a school and returns the deleted row in one round trip.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (*model.School, error) {
	var s model.School
	row := r.pool.QueryRow(ctx, `
		DELETE FROM schools WHERE id=$1
		RETURNING id, name, address, city, state, contact, email_id, image
	`, id)
	if err := row.Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.State, &s.Contact, &s.EmailID, &s.Image); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete school: %w", err)
	}
	return &s, nil
}
