package schools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dharsanguruparan/SchoolHub/internal/blob"
	"github.com/dharsanguruparan/SchoolHub/internal/repository"
)

// ErrNotFound is returned by Delete when the id is unknown.
var ErrNotFound = repository.ErrNotFound

// ValidationError lists the required fields that were missing from a create
// request.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// DatabaseError wraps a failing Record Store call. Its message is the driver's
// message, surfaced to clients as-is.
type DatabaseError struct {
	Err error
}

func (e *DatabaseError) Error() string { return e.Err.Error() }

func (e *DatabaseError) Unwrap() error { return e.Err }

// Kind classifies an error returned by the service for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindStorage
	KindDatabase
)

// Classify maps an error to its Kind.
func Classify(err error) Kind {
	var (
		validation *ValidationError
		storage    *blob.StorageWriteError
		database   *DatabaseError
	)
	switch {
	case errors.As(err, &validation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.As(err, &storage):
		return KindStorage
	case errors.As(err, &database):
		return KindDatabase
	default:
		return KindInternal
	}
}
