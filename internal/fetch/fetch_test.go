package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFetcher() *Fetcher {
	return New(10*time.Second, zap.NewNop())
}

func TestEnsureExistingFileIsUsed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.onnx")
	require.NoError(t, os.WriteFile(path, []byte("already here"), 0o644))

	// URL is unreachable on purpose: an existing artifact must short-circuit.
	err := newFetcher().Ensure(context.Background(), path, "http://127.0.0.1:1/model.onnx")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("already here"), data)
}

func TestEnsureDownloadsMissingArtifact(t *testing.T) {
	payload := []byte("onnx-bytes-payload")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "models", "model.onnx")
	err := newFetcher().Ensure(context.Background(), path, srv.URL+"/model.onnx")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	// No download leftovers next to the artifact.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEnsureExtractsZipArchive(t *testing.T) {
	payload := []byte("model-inside-archive")
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	readme, err := zw.Create("README.txt")
	require.NoError(t, err)
	readme.Write([]byte("ignore me"))
	member, err := zw.Create("plant_nutrition.onnx")
	require.NoError(t, err)
	member.Write(payload)
	require.NoError(t, zw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "model.onnx")
	err = newFetcher().Ensure(context.Background(), path, srv.URL+"/artifact.zip")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestEnsureZipWithoutModelMember(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	member, err := zw.Create("notes.txt")
	require.NoError(t, err)
	member.Write([]byte("no model in here"))
	require.NoError(t, zw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "model.onnx")
	err = newFetcher().Ensure(context.Background(), path, srv.URL+"/artifact.zip")
	assert.ErrorIs(t, err, ErrAcquisition)
	assert.NoFileExists(t, path)
}

func TestEnsureFailures(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer notFound.Close()

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer empty.Close()

	tests := []struct {
		name string
		url  string
	}{
		{"no url configured", ""},
		{"server unreachable", "http://127.0.0.1:1/model.onnx"},
		{"remote 404", notFound.URL + "/model.onnx"},
		{"empty body", empty.URL + "/model.onnx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "model.onnx")
			err := newFetcher().Ensure(context.Background(), path, tt.url)
			assert.ErrorIs(t, err, ErrAcquisition)
			assert.NoFileExists(t, path)
		})
	}
}
