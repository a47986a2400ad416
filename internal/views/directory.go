package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dharsanguruparan/SchoolHub/internal/client"
	"github.com/dharsanguruparan/SchoolHub/internal/model"
)

// DirectoryNoticeDelay is how long a delete result stays on screen.
const DirectoryNoticeDelay = 3 * time.Second

const (
	deleteFailedMessage = "Failed to delete school. Please try again."
	networkErrorMessage = "Network error occurred. Please check your connection."
)

// SchoolAPI is the client surface the directory needs.
type SchoolAPI interface {
	ListSchools(ctx context.Context) ([]model.School, error)
	DeleteSchool(ctx context.Context, id int64) error
}

// Directory is the schools list view with search and confirmed deletes.
type Directory struct {
	Notice *Notice

	api     SchoolAPI
	mu      sync.RWMutex
	schools []model.School
	query   string
	pending *model.School
}

// NewDirectory returns an empty directory bound to api. Call Load to fetch.
func NewDirectory(api SchoolAPI) *Directory {
	return &Directory{api: api, Notice: NewNotice(DirectoryNoticeDelay)}
}

// Load replaces the cached list with the server's.
func (d *Directory) Load(ctx context.Context) error {
	list, err := d.api.ListSchools(ctx)
	if err != nil {
		return fmt.Errorf("load schools: %w", err)
	}
	d.mu.Lock()
	d.schools = list
	d.mu.Unlock()
	return nil
}

// SetQuery sets the search text.
func (d *Directory) SetQuery(q string) {
	d.mu.Lock()
	d.query = q
	d.mu.Unlock()
}

// Query returns the current search text.
func (d *Directory) Query() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.query
}

// All returns every loaded school regardless of the query.
func (d *Directory) All() []model.School {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]model.School(nil), d.schools...)
}

// Visible returns the loaded schools matching the current query.
func (d *Directory) Visible() []model.School {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Filter(d.schools, d.query)
}

// Filter keeps the schools whose name, address, city or state contains q,
// ignoring case. An empty q keeps everything. The input is not modified.
func Filter(schools []model.School, q string) []model.School {
	q = strings.ToLower(q)
	out := make([]model.School, 0, len(schools))
	for _, s := range schools {
		if q == "" || matches(s, q) {
			out = append(out, s)
		}
	}
	return out
}

func matches(s model.School, q string) bool {
	for _, field := range []string{s.Name, s.Address, s.City, s.State} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// RequestDelete opens the confirmation for s and returns its prompt.
func (d *Directory) RequestDelete(s model.School) string {
	d.mu.Lock()
	d.pending = &s
	d.mu.Unlock()
	return DeletePrompt(s)
}

// DeletePrompt is the confirmation text for deleting s.
func DeletePrompt(s model.School) string {
	return fmt.Sprintf("Are you sure you want to delete \"%s\"?", s.Name)
}

// Pending returns the school awaiting confirmation, if any.
func (d *Directory) Pending() (model.School, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.pending == nil {
		return model.School{}, false
	}
	return *d.pending, true
}

// CancelDelete closes the confirmation without deleting.
func (d *Directory) CancelDelete() {
	d.mu.Lock()
	d.pending = nil
	d.mu.Unlock()
}

// ConfirmDelete deletes the pending school and reports the outcome on the
// notice. On success the list is reloaded from the server. It returns false
// when nothing was pending.
func (d *Directory) ConfirmDelete(ctx context.Context) bool {
	d.mu.Lock()
	target := d.pending
	d.pending = nil
	d.mu.Unlock()
	if target == nil {
		return false
	}

	d.Notice.Begin()
	err := d.api.DeleteSchool(ctx, target.ID)
	var apiErr *client.APIError
	switch {
	case err == nil:
		d.Notice.Succeed(fmt.Sprintf("\"%s\" has been deleted successfully!", target.Name))
		// a failed refresh leaves the previous list on screen
		_ = d.Load(ctx)
	case errors.As(err, &apiErr):
		msg := apiErr.Message
		if msg == "" {
			msg = deleteFailedMessage
		}
		d.Notice.Fail(msg)
	default:
		d.Notice.Fail(networkErrorMessage)
	}
	return true
}
