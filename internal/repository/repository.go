// Package repository holds the Record Store: the schools table and the SQL
// that reads and writes it.
package repository

import (
	"context"
	"errors"

	"github.com/dharsanguruparan/SchoolHub/internal/model"
)

// ErrNotFound is returned by Get and Delete when no row has the requested id.
var ErrNotFound = errors.New("School not found")

// Repository is the contract every Record Store backend implements.
type Repository interface {
	// Create inserts the record and assigns its ID. The row is visible to the
	// next List as soon as Create returns.
	Create(ctx context.Context, school *model.School) error
	// List returns every row in insertion order.
	List(ctx context.Context) ([]model.School, error)
	// Get returns one row or ErrNotFound.
	Get(ctx context.Context, id int64) (*model.School, error)
	// Delete removes one row and returns what was removed, or ErrNotFound.
	Delete(ctx context.Context, id int64) (*model.School, error)
}
