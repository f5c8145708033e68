package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/angelmondragon/cafepos-backend/pkg/config"
	"github.com/angelmondragon/cafepos-backend/pkg/logger"
)

// Client stores uploaded objects on the local filesystem.
type Client struct {
	dir          string
	publicPrefix string
	logg         *logger.Logger
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// NewClient prepares the upload directory.
func NewClient(ctx context.Context, cfg config.UploadsConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, errors.New("uploads dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	prefix := "/" + strings.Trim(cfg.PublicPrefix, "/")
	client := &Client{dir: cfg.Dir, publicPrefix: prefix, logg: logg}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "uploads_dir", cfg.Dir), "local storage ready")
	}
	return client, nil
}

// Dir is the directory objects are written to.
func (c *Client) Dir() string {
	return c.dir
}

// PublicPrefix is the URL path the stored objects are served under.
func (c *Client) PublicPrefix() string {
	return c.publicPrefix
}

// Put writes r under name and returns the public path of the object.
func (c *Client) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(c.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp object: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		cleanup()
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("close object: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(c.dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("store object: %w", err)
	}
	return path.Join(c.publicPrefix, name), nil
}

// Delete removes the named object. Missing objects are not an error.
func (c *Client) Delete(_ context.Context, name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid object name %q", name)
	}
	err := os.Remove(filepath.Join(c.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Ping verifies the upload directory is still a writable directory.
func (c *Client) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(c.dir)
	if err != nil {
		return fmt.Errorf("stat uploads dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("uploads path %s is not a directory", c.dir)
	}
	probe, err := os.CreateTemp(c.dir, ".ping-*")
	if err != nil {
		return fmt.Errorf("uploads dir not writable: %w", err)
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(name)
}
