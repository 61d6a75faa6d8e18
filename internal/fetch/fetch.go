// Package fetch acquires the model artifact from remote storage when it is
// not already present on disk.
package fetch

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

var ErrAcquisition = errors.New("model acquisition failed")

// Fetcher downloads model artifacts over HTTP.
type Fetcher struct {
	client *http.Client
	log    *zap.Logger
}

// New creates a Fetcher with a per-request deadline (0 = no timeout).
func New(timeout time.Duration, log *zap.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Ensure makes the artifact at path available. When the file already exists
// it is used as-is; otherwise the artifact is fetched from url. URLs ending
// in .zip are treated as archives holding the model as a single member.
// The artifact appears at path atomically or not at all.
func (f *Fetcher) Ensure(ctx context.Context, path, url string) error {
	if _, err := os.Stat(path); err == nil {
		f.log.Debug("model artifact already present", zap.String("path", path))
		return nil
	}

	if url == "" {
		return fmt.Errorf("%w: %s is missing and no download URL is configured", ErrAcquisition, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrAcquisition, err)
	}

	f.log.Info("downloading model artifact", zap.String("url", url), zap.String("path", path))

	tmp, err := f.download(ctx, url, filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAcquisition, err)
	}
	defer os.Remove(tmp)

	if strings.HasSuffix(strings.ToLower(strings.SplitN(url, "?", 2)[0]), ".zip") {
		if err := extractModel(tmp, path); err != nil {
			return fmt.Errorf("%w: %w", ErrAcquisition, err)
		}
		return nil
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: %w", ErrAcquisition, err)
	}
	return nil
}

// download fetches url into a temporary file inside dir and returns its name.
// The caller removes the file.
func (f *Fetcher) download(ctx context.Context, url, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %s from %s", resp.Status, url)
	}

	tmp, err := os.CreateTemp(dir, ".model-download-*")
	if err != nil {
		return "", err
	}

	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if n == 0 {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("empty response body from %s", url)
	}

	f.log.Info("download complete", zap.Int64("bytes", n))
	return tmp.Name(), nil
}

// extractModel pulls the first model member out of the archive and writes it
// to dest atomically.
func extractModel(archivePath, dest string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	for _, member := range zr.File {
		name := strings.ToLower(member.Name)
		if !strings.HasSuffix(name, ".onnx") && !strings.HasSuffix(name, ".tflite") {
			continue
		}

		rc, err := member.Open()
		if err != nil {
			return fmt.Errorf("open archive member %s: %w", member.Name, err)
		}

		tmp, err := os.CreateTemp(filepath.Dir(dest), ".model-extract-*")
		if err != nil {
			rc.Close()
			return err
		}

		_, err = io.Copy(tmp, rc)
		rc.Close()
		if cerr := tmp.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(tmp.Name())
			return fmt.Errorf("extract %s: %w", member.Name, err)
		}

		if err := os.Rename(tmp.Name(), dest); err != nil {
			os.Remove(tmp.Name())
			return err
		}
		return nil
	}

	return errors.New("archive contains no model file")
}
