// Package schools is the Schools Service: it orchestrates the blob store and
// the record store for the create, list and delete operations. The service
// keeps no state between calls.
package schools

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/dharsanguruparan/SchoolHub/internal/blob"
	"github.com/dharsanguruparan/SchoolHub/internal/model"
	"github.com/dharsanguruparan/SchoolHub/internal/repository"
)

// Input carries the text fields of a create request. Only presence is checked
// here; format rules live in the client form.
type Input struct {
	Name    string `form:"name" validate:"required"`
	Address string `form:"address" validate:"required"`
	City    string `form:"city" validate:"required"`
	State   string `form:"state" validate:"required"`
	Contact string `form:"contact" validate:"required"`
	EmailID string `form:"email_id" validate:"required"`
}

// Cleaner disposes of the blob behind a deleted record.
type Cleaner interface {
	Cleanup(ctx context.Context, reference string) error
}

// InlineCleaner deletes blobs synchronously within the delete request.
type InlineCleaner struct {
	Blobs blob.Store
}

// Cleanup implements Cleaner.
func (c InlineCleaner) Cleanup(ctx context.Context, reference string) error {
	return c.Blobs.Delete(ctx, reference)
}

// Service implements the three school operations.
type Service struct {
	repo     repository.Repository
	blobs    blob.Store
	cleaner  Cleaner
	log      logrus.FieldLogger
	validate *validator.Validate
}

// New constructs a Service. A nil cleaner deletes blobs inline.
func New(repo repository.Repository, blobs blob.Store, cleaner Cleaner, log logrus.FieldLogger) *Service {
	if cleaner == nil {
		cleaner = InlineCleaner{Blobs: blobs}
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
	})
	return &Service{
		repo:     repo,
		blobs:    blobs,
		cleaner:  cleaner,
		log:      log,
		validate: v,
	}
}

// Create stores the image first and then inserts the row that references it.
// A stored image is not rolled back when the insert fails.
func (s *Service) Create(ctx context.Context, in Input, file *blob.File) (*model.School, error) {
	if err := s.checkRequired(in); err != nil {
		return nil, err
	}
	ref, err := s.blobs.Save(ctx, file)
	if err != nil {
		return nil, err
	}
	school := &model.School{
		Name:    in.Name,
		Address: in.Address,
		City:    in.City,
		State:   in.State,
		Contact: in.Contact,
		EmailID: in.EmailID,
		Image:   ref,
	}
	if err := s.repo.Create(ctx, school); err != nil {
		if ref != nil {
			s.log.WithField("image", *ref).Warn("insert failed after image was stored; image left in place")
		}
		return nil, &DatabaseError{Err: err}
	}
	s.log.WithFields(logrus.Fields{"id": school.ID, "image": school.ImageRef()}).Info("school created")
	return school, nil
}

// List returns every stored school.
func (s *Service) List(ctx context.Context) ([]model.School, error) {
	schools, err := s.repo.List(ctx)
	if err != nil {
		return nil, &DatabaseError{Err: err}
	}
	return schools, nil
}

// Delete removes the row and then cleans up its image on a best-effort basis.
// Cleanup failures are logged and never reported to the caller.
func (s *Service) Delete(ctx context.Context, id int64) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return &DatabaseError{Err: err}
	}
	entry := s.log.WithField("id", id)
	if ref := removed.ImageRef(); ref != "" {
		if err := s.cleaner.Cleanup(ctx, ref); err != nil {
			entry.WithError(err).WithField("image", ref).Warn("image cleanup failed")
		}
	}
	entry.Info("school deleted")
	return nil
}

func (s *Service) checkRequired(in Input) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		missing = append(missing, fe.Field())
	}
	return &ValidationError{Fields: missing}
}
