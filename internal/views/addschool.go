// Package views holds the client-side views of SchoolHub as plain state
// machines: the add-school form and the schools directory. Any front end (the
// schoolhub CLI in this repository) can host them.
package views

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dharsanguruparan/SchoolHub/internal/client"
)

const (
	// MaxImageBytes is the exclusive upper bound on an image upload.
	MaxImageBytes = 100 * 1024
	// AddNoticeDelay is how long the add result stays on screen.
	AddNoticeDelay = 4 * time.Second

	addedMessage = "School added successfully!"
)

// ImageFile is the file chosen in the image input.
type ImageFile struct {
	Filename    string `form:"filename"`
	Size        int64  `form:"size" validate:"lt=102400"`
	ContentType string `form:"type" validate:"oneof=image/jpeg image/png image/jpg"`
	Data        []byte `form:"-"`
}

// SchoolForm holds the add-school form fields.
type SchoolForm struct {
	Name    string     `form:"name" validate:"required"`
	Address string     `form:"address" validate:"required"`
	City    string     `form:"city" validate:"required"`
	State   string     `form:"state" validate:"required"`
	Contact string     `form:"contact" validate:"required,number,min=10,max=12"`
	EmailID string     `form:"email_id" validate:"required,simple_email"`
	Image   *ImageFile `form:"image" validate:"required"`
}

// FieldErrors maps a form field to the message shown under it.
type FieldErrors map[string]string

var messages = map[string]string{
	"name.required":         "School name is required",
	"address.required":      "Address is required",
	"city.required":         "City is required",
	"state.required":        "State is required",
	"contact.required":      "Contact number is required",
	"contact.number":        "Contact number must contain digits only",
	"contact.min":           "At least 10 digits",
	"contact.max":           "At most 12 digits",
	"email_id.required":     "Email is required",
	"email_id.simple_email": "Invalid email format",
	"image.required":        "Image is required",
	"image.size.lt":         "Image must be less than 100KB",
	"image.type.oneof":      "Only JPG/PNG images are allowed",
}

var simpleEmail = regexp.MustCompile(`^\S+@\S+$`)

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return simpleEmail.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks the form and returns one message per failing field, or nil
// when the form may be submitted.
func Validate(form SchoolForm) FieldErrors {
	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return FieldErrors{"form": err.Error()}
	}
	out := make(FieldErrors)
	for _, fe := range fieldErrs {
		// Namespace is "SchoolForm.image.size"; drop the struct name
		path := fe.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		field := strings.SplitN(path, ".", 2)[0]
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := messages[path+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		out[field] = msg
	}
	return out
}

// SchoolCreator is the client call the add view needs.
type SchoolCreator interface {
	CreateSchool(ctx context.Context, s client.NewSchool) error
}

// AddSchool is the add-school form view.
type AddSchool struct {
	Form   SchoolForm
	Errors FieldErrors
	Notice *Notice

	api SchoolCreator
}

// NewAddSchool returns an empty form bound to api.
func NewAddSchool(api SchoolCreator) *AddSchool {
	return &AddSchool{api: api, Notice: NewNotice(AddNoticeDelay)}
}

// Submit validates the form and, only when it is valid, sends it. It reports
// whether a request was sent. On success the form is cleared.
func (v *AddSchool) Submit(ctx context.Context) bool {
	v.Errors = Validate(v.Form)
	if len(v.Errors) > 0 {
		return false
	}
	v.Notice.Begin()
	err := v.api.CreateSchool(ctx, v.request())
	var apiErr *client.APIError
	switch {
	case err == nil:
		v.Form = SchoolForm{}
		v.Notice.Succeed(addedMessage)
	case errors.As(err, &apiErr):
		msg := apiErr.Message
		if msg == "" {
			msg = "Something went wrong"
		}
		v.Notice.Fail(msg)
	default:
		v.Notice.Fail("Error: " + err.Error())
	}
	return true
}

func (v *AddSchool) request() client.NewSchool {
	f := v.Form
	req := client.NewSchool{
		Name:    f.Name,
		Address: f.Address,
		City:    f.City,
		State:   f.State,
		Contact: f.Contact,
		EmailID: f.EmailID,
	}
	if f.Image != nil {
		req.Image = &client.Image{
			Filename:    f.Image.Filename,
			ContentType: f.Image.ContentType,
			Data:        f.Image.Data,
		}
	}
	return req
}
