// Package model contains simple struct definitions shared across packages.
package model

// School is one row of the schools table. Image holds the opaque reference
// returned by the blob store (an absolute URL or a stored filename) and is nil
// when no file was uploaded.
type School struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	Contact string  `json:"contact"`
	EmailID string  `json:"email_id"`
	Image   *string `json:"image"`
}

// ImageRef returns the image reference or "" when none is set.
func (s School) ImageRef() string {
	if s.Image == nil {
		return ""
	}
	return *s.Image
}
