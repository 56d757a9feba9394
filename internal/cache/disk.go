package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var _ Cache = (*DiskCache)(nil)

// DiskCache keeps each value verbatim in its own file under dir
type DiskCache struct {
	dir string
	ttl time.Duration
}

// NewDiskCache creates a disk cache. A zero ttl never expires entries.
func NewDiskCache(dir string, ttl time.Duration) *DiskCache {
	return &DiskCache{
		dir: dir,
		ttl: ttl,
	}
}

// Get reads a cached value, treating expired or empty files as misses
func (c *DiskCache) Get(key string) ([]byte, bool) {
	p := c.Path(key)

	info, err := os.Stat(p)
	if err != nil {
		return nil, false
	}

	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		_ = os.Remove(p)
		return nil, false
	}

	data, err := os.ReadFile(p)
	if err != nil || len(data) == 0 {
		return nil, false
	}

	return data, true
}

// Set writes the value to disk through a temp file so readers never see a partial page
func (c *DiskCache) Set(key string, value []byte) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.Path(key)); err != nil {
		return fmt.Errorf("rename cache file: %w", err)
	}

	return nil
}

// Delete removes a cached value; a missing entry is not an error
func (c *DiskCache) Delete(key string) error {
	err := os.Remove(c.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Clear removes the whole cache directory
func (c *DiskCache) Clear() error {
	return os.RemoveAll(c.dir)
}

// Path returns the file that holds key
func (c *DiskCache) Path(key string) string {
	return filepath.Join(c.dir, key+".html")
}
