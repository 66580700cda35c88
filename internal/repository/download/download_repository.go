package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"appMatch/pkg/logger"
)

// Repository fetches data files over HTTP before the first index
// load, so the stores can assume their backing files exist locally.
// Files already on disk are left alone.
type Repository struct {
	client *http.Client
}

func NewRepository() *Repository {
	return &Repository{
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// EnsureFile downloads url into path unless path already exists. A
// missing URL with a missing file is an error only for the caller
// that needs the file; here it is skipped silently so optional
// sources stay optional.
func (r *Repository) EnsureFile(ctx context.Context, url, path string) error {
	if _, err := os.Stat(path); err == nil {
		logger.Debug("using cached data file", "path", path)
		return nil
	}

	if url == "" {
		return nil
	}

	logger.Info("downloading data file", "url", url, "path", path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %d", url, resp.StatusCode)
	}

	// write to a temp file first so a partial download never
	// masquerades as a complete data file
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move %s into place: %w", path, err)
	}

	logger.Info("data file ready", "path", path)
	return nil
}

// EnsureAll fetches every configured (url, path) pair, stopping on
// the first failure.
func (r *Repository) EnsureAll(ctx context.Context, files map[string]string) error {
	for path, url := range files {
		if err := r.EnsureFile(ctx, url, path); err != nil {
			return err
		}
	}
	return nil
}
