package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dharsanguruparan/SchoolHub/internal/model"
)

// SQLRepository stores schools through database/sql. It serves both the
// mysql and sqlite3 drivers since they share the "?" placeholder and
// LastInsertId.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository constructs a repository over an open pool.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Create inserts a school and records the auto-increment id on it.
func (r *SQLRepository) Create(ctx context.Context, school *model.School) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO schools (name, address, city, state, contact, email_id, image) VALUES (?, ?, ?, ?, ?, ?, ?)",
		school.Name, school.Address, school.City, school.State, school.Contact, school.EmailID, nullString(school.Image),
	)
	if err != nil {
		return fmt.Errorf("insert school: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert school: %w", err)
	}
	school.ID = id
	return nil
}

// List returns every school ordered by id.
func (r *SQLRepository) List(ctx context.Context) ([]model.School, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, address, city, state, contact, email_id, image FROM schools ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("select schools: %w", err)
	}
	defer rows.Close()
	schools := make([]model.School, 0)
	for rows.Next() {
		s, err := scanSchool(rows)
		if err != nil {
			return nil, err
		}
		schools = append(schools, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select schools: %w", err)
	}
	return schools, nil
}

// Get returns a school by id.
func (r *SQLRepository) Get(ctx context.Context, id int64) (*model.School, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, address, city, state, contact, email_id, image FROM schools WHERE id = ?", id)
	s, err := scanSchool(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// Delete looks the row up first so the caller gets the image reference back,
// then removes it. MySQL has no DELETE ... RETURNING.
func (r *SQLRepository) Delete(ctx context.Context, id int64) (*model.School, error) {
	s, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM schools WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("delete school: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("delete school: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSchool(row scanner) (*model.School, error) {
	var (
		s     model.School
		image sql.NullString
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.State, &s.Contact, &s.EmailID, &image); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan school: %w", err)
	}
	if image.Valid {
		ref := image.String
		s.Image = &ref
	}
	return &s, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
