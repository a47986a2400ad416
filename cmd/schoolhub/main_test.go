package main

import (
	"bytes"
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

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	blobs := blob.NewLocalStore(filepath.Join(t.TempDir(), "img"))
	svc := schools.New(repository.NewMemoryRepository(), blobs, nil, logger)
	cfg := &config.Config{MaxUploadBytes: 1 << 20, StaticPrefix: "/schoolImages/"}
	ts := httptest.NewServer(api.New(cfg, svc, blobs, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writePNG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lotus.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nfake-pixels"), 0o600))
	return path
}

func addArgs(url, name, city, image string) []string {
	return []string{
		"add", "--api-url", url,
		"--name", name,
		"--address", "12 MG Road",
		"--city", city,
		"--state", "Maharashtra",
		"--contact", "9876543210",
		"--email", "office@example.edu",
		"--image", image,
	}
}

func TestAddListDelete(t *testing.T) {
	ts := newAPI(t)
	img := writePNG(t)

	out, stderr, err := run(t, "", addArgs(ts.URL, "Lotus School", "Pune", img)...)
	require.NoError(t, err)
	assert.Contains(t, out, "School added successfully!")
	assert.Contains(t, stderr, "Submitting...")

	_, _, err = run(t, "", addArgs(ts.URL, "Oak Academy", "Delhi", img)...)
	require.NoError(t, err)

	out, _, err = run(t, "", "list", "--api-url", ts.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Lotus School")
	assert.Contains(t, out, "Oak Academy")
	assert.Contains(t, out, ts.URL+"/schoolImages/")

	out, _, err = run(t, "", "list", "--api-url", ts.URL, "--search", "PUNE")
	require.NoError(t, err)
	assert.Contains(t, out, "Lotus School")
	assert.NotContains(t, out, "Oak Academy")

	out, _, err = run(t, "n\n", "delete", "1", "--api-url", ts.URL)
	require.NoError(t, err)
	assert.Contains(t, out, `Are you sure you want to delete "Lotus School"?`)
	assert.Contains(t, out, "Cancelled.")

	out, _, err = run(t, "y\n", "delete", "1", "--api-url", ts.URL)
	require.NoError(t, err)
	assert.Contains(t, out, `"Lotus School" has been deleted successfully!`)

	out, _, err = run(t, "", "list", "--api-url", ts.URL)
	require.NoError(t, err)
	assert.NotContains(t, out, "Lotus School")
	assert.Contains(t, out, "Oak Academy")
}

func TestAddInvalidFormSendsNothing(t *testing.T) {
	ts := newAPI(t)

	_, stderr, err := run(t, "", "add", "--api-url", ts.URL, "--name", "Lotus School", "--contact", "123")
	require.Error(t, err)
	assert.Contains(t, stderr, "At least 10 digits")
	assert.Contains(t, stderr, "Image is required")

	out, _, err := run(t, "", "list", "--api-url", ts.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "No schools found.")
}

func TestDeleteUnknownSchool(t *testing.T) {
	ts := newAPI(t)
	_, _, err := run(t, "", "delete", "42", "--yes", "--api-url", ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "school 42 not found")
}

func TestDeleteRejectsBadID(t *testing.T) {
	ts := newAPI(t)
	_, _, err := run(t, "", "delete", "abc", "--api-url", ts.URL)
	require.Error(t, err)
}

func TestMigrateSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "schools.db")
	t.Setenv("SCHOOLHUB_DB_DRIVER", "sqlite3")
	t.Setenv("SCHOOLHUB_DB_PATH", dbPath)

	out, _, err := run(t, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schools table ready (sqlite3)")
	assert.FileExists(t, dbPath)
}
