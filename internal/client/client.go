// Package client talks to the schools HTTP API on behalf of the views.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dharsanguruparan/SchoolHub/internal/model"
)

// APIError is returned when the server answered with a JSON envelope carrying
// success=false. Responses that are not JSON come back as plain errors.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// Image is an image file picked in the add form.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewSchool is the payload of a create request.
type NewSchool struct {
	Name    string
	Address string
	City    string
	State   string
	Contact string
	EmailID string
	Image   *Image
}

type envelope struct {
	Success bool           `json:"success"`
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Schools []model.School `json:"schools"`
}

// Client is a thin wrapper over the /schools endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a Client. A nil http.Client gets a 30 second timeout.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// CreateSchool submits the multipart form.
func (c *Client) CreateSchool(ctx context.Context, s NewSchool) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"name", s.Name},
		{"address", s.Address},
		{"city", s.City},
		{"state", s.State},
		{"contact", s.Contact},
		{"email_id", s.EmailID},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	if s.Image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, quoteEscaper.Replace(s.Image.Filename)))
		ct := s.Image.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(s.Image.Data); err != nil {
			return fmt.Errorf("write image part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/schools", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	_, err = c.do(req)
	return err
}

// ListSchools fetches every school.
func (c *Client) ListSchools(ctx context.Context) ([]model.School, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/schools", nil)
	if err != nil {
		return nil, err
	}
	env, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return env.Schools, nil
}

// DeleteSchool deletes one school by id.
func (c *Client) DeleteSchool(ctx context.Context, id int64) error {
	q := url.Values{"id": {strconv.FormatInt(id, 10)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/schools?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	_, err = c.do(req)
	return err
}

// ImageURL resolves an image reference: absolute URLs are used as they are,
// bare filenames live under the static prefix of the API host.
func (c *Client) ImageURL(staticPrefix, reference string) string {
	return ImageURL(c.baseURL, staticPrefix, reference)
}

// ImageURL is the package-level form of Client.ImageURL.
func ImageURL(baseURL, staticPrefix, reference string) string {
	if reference == "" {
		return ""
	}
	if strings.HasPrefix(reference, "http://") || strings.HasPrefix(reference, "https://") {
		return reference
	}
	prefix := "/" + strings.Trim(staticPrefix, "/") + "/"
	return strings.TrimRight(baseURL, "/") + prefix + url.PathEscape(reference)
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if !env.Success {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Error}
	}
	return &env, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")
