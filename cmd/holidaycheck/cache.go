package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	cacheCSVFile  = "syukujitsu.csv"
	cacheMetaFile = "meta.yaml"
)

// cacheMeta records where the cached CSV came from and the validators for
// revalidating it.
type cacheMeta struct {
	URL          string    `yaml:"url"`
	ETag         string    `yaml:"etag,omitempty"`
	LastModified string    `yaml:"last_modified,omitempty"`
	FetchedAt    time.Time `yaml:"fetched_at"`
}

// csvCache stores the last downloaded CSV in a directory.
type csvCache struct {
	dir string
}

// load returns the cached metadata and body. A cache that was never written
// returns nil for both and no error.
func (c *csvCache) load() (*cacheMeta, []byte, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, cacheMetaFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read cache metadata: %w", err)
	}

	var meta cacheMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, nil, fmt.Errorf("failed to parse cache metadata: %w", err)
	}

	body, err := os.ReadFile(filepath.Join(c.dir, cacheCSVFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read cached CSV: %w", err)
	}
	return &meta, body, nil
}

// store writes body and then meta, so metadata never describes a body that
// was not written.
func (c *csvCache) store(meta cacheMeta, body []byte) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.dir, cacheCSVFile), body, 0644); err != nil {
		return fmt.Errorf("failed to write cached CSV: %w", err)
	}

	data, err := yaml.Marshal(&meta)
	if err != nil {
		return fmt.Errorf("failed to marshal cache metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.dir, cacheMetaFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write cache metadata: %w", err)
	}
	return nil
}
