// Package local provides an ObjectStorage that writes archive objects to a
// directory on disk. The Bucket becomes a subdirectory under the base dir.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"vendido/internal/port"
)

type localClient struct {
	baseDir string
}

// NewLocalClient creates a directory-backed ObjectStorage rooted at baseDir.
func NewLocalClient(baseDir string) port.ObjectStorage {
	return &localClient{baseDir: baseDir}
}

func (c *localClient) Upload(_ context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	path := filepath.Join(c.baseDir, input.Bucket, filepath.FromSlash(input.Key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}

	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, fmt.Errorf("reading archive body: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing archive file %s: %w", path, err)
	}

	return &port.UploadOutput{Location: path}, nil
}
