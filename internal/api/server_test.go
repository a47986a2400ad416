package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/SchoolHub/internal/api"
	"github.com/dharsanguruparan/SchoolHub/internal/blob"
	"github.com/dharsanguruparan/SchoolHub/internal/config"
	"github.com/dharsanguruparan/SchoolHub/internal/repository"
	"github.com/dharsanguruparan/SchoolHub/internal/schools"
)

type apiResponse struct {
	Success bool             `json:"success"`
	Error   string           `json:"error"`
	Message string           `json:"message"`
	Schools []map[string]any `json:"schools"`
}

func setup(t *testing.T) (*httptest.Server, *blob.LocalStore) {
	t.Helper()
	cfg := &config.Config{
		MaxUploadBytes: 64 << 10,
		StaticPrefix:   "/schoolImages/",
	}
	logger, _ := logtest.NewNullLogger()
	blobs := blob.NewLocalStore(filepath.Join(t.TempDir(), "schoolImages"))
	svc := schools.New(repository.NewMemoryRepository(), blobs, nil, logger)
	ts := httptest.NewServer(api.New(cfg, svc, blobs, logger).Handler())
	t.Cleanup(ts.Close)
	return ts, blobs
}

var validFields = map[string]string{
	"name":     "Lotus School",
	"address":  "1 Rd",
	"city":     "Pune",
	"state":    "MH",
	"contact":  "9876543210",
	"email_id": "office@lotus.example",
}

func multipartBody(t *testing.T, fields map[string]string, image []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		part, err := mw.CreateFormFile("image", "lotus.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decode(t *testing.T, resp *http.Response) apiResponse {
	t.Helper()
	defer resp.Body.Close()
	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func post(t *testing.T, url string, fields map[string]string, image []byte) *http.Response {
	t.Helper()
	body, ct := multipartBody(t, fields, image)
	resp, err := http.Post(url, ct, body)
	require.NoError(t, err)
	return resp
}

func del(t *testing.T, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func list(t *testing.T, base string) []map[string]any {
	t.Helper()
	resp, err := http.Get(base + "/schools")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode(t, resp)
	require.True(t, out.Success)
	return out.Schools
}

func TestHealth(t *testing.T) {
	ts, _ := setup(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListEmptyIsArray(t *testing.T) {
	ts, _ := setup(t)
	resp, err := http.Get(ts.URL + "/schools")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"schools":[]}`, string(raw))
}

func TestCreateListAndFetchImage(t *testing.T) {
	ts, _ := setup(t)
	image := []byte("\x89PNG\r\n\x1a\nsmall image")

	resp := post(t, ts.URL+"/schools", validFields, image)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode(t, resp)
	assert.True(t, out.Success)

	schools := list(t, ts.URL)
	require.Len(t, schools, 1)
	got := schools[0]
	for k, v := range validFields {
		assert.Equal(t, v, got[k], k)
	}
	assert.EqualValues(t, 1, got["id"])
	ref, ok := got["image"].(string)
	require.True(t, ok)

	img, err := http.Get(ts.URL + "/schoolImages/" + ref)
	require.NoError(t, err)
	defer img.Body.Close()
	assert.Equal(t, http.StatusOK, img.StatusCode)
	data, err := io.ReadAll(img.Body)
	require.NoError(t, err)
	assert.Equal(t, image, data)
}

func TestCreateWithoutImageStoresNull(t *testing.T) {
	ts, _ := setup(t)
	resp := post(t, ts.URL+"/api/schools", validFields, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	schools := list(t, ts.URL)
	require.Len(t, schools, 1)
	assert.Contains(t, schools[0], "image")
	assert.Nil(t, schools[0]["image"])
}

func TestCreateMissingFieldIsRejected(t *testing.T) {
	ts, _ := setup(t)
	fields := map[string]string{}
	for k, v := range validFields {
		if k != "city" {
			fields[k] = v
		}
	}
	resp := post(t, ts.URL+"/schools", fields, []byte("img"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decode(t, resp)
	assert.False(t, out.Success)
	assert.Contains(t, out.Error, "city")
	assert.Empty(t, list(t, ts.URL))
}

func TestCreateRequiresMultipart(t *testing.T) {
	ts, _ := setup(t)
	resp, err := http.Post(ts.URL+"/schools", "application/json", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decode(t, resp)
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Error)
}

func TestCreateBodyTooLarge(t *testing.T) {
	ts, _ := setup(t)
	resp := post(t, ts.URL+"/schools", validFields, bytes.Repeat([]byte("a"), 128<<10))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	out := decode(t, resp)
	assert.False(t, out.Success)
	assert.Empty(t, list(t, ts.URL))
}

func TestDeleteFlow(t *testing.T) {
	ts, blobs := setup(t)
	resp := post(t, ts.URL+"/schools", validFields, []byte("img"))
	resp.Body.Close()
	schools := list(t, ts.URL)
	require.Len(t, schools, 1)
	ref := schools[0]["image"].(string)

	resp = del(t, ts.URL+"/schools")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, decode(t, resp).Success)

	resp = del(t, ts.URL+"/schools?id=abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid school id", decode(t, resp).Error)

	resp = del(t, ts.URL+"/schools?id=42")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "School not found", decode(t, resp).Error)
	assert.Len(t, list(t, ts.URL), 1)

	resp = del(t, ts.URL+"/schools?id=1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode(t, resp)
	assert.True(t, out.Success)
	assert.Equal(t, "School deleted successfully", out.Message)

	assert.Empty(t, list(t, ts.URL))
	_, err := os.Stat(filepath.Join(blobs.Dir(), ref))
	assert.True(t, os.IsNotExist(err))
}

func TestCORSPreflight(t *testing.T) {
	ts, _ := setup(t)
	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/schools", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestStaticDirectoryIsNotListed(t *testing.T) {
	ts, _ := setup(t)
	resp := post(t, ts.URL+"/schools", validFields, []byte("img"))
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/schoolImages/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
