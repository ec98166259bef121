package kv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"

	"steadfast/internal/anchor"
)

// DiskStore keeps one file per key under a root directory, e.g. an app-group
// container both the app and the widget can read:
//
//	<root>/
//	  data/
//	    anchor_of_day_payload
//	  tmp/            (staging area for atomic writes)
//
// Writes go to tmp/ and are renamed into place, so a reader in another
// process never observes a partially written value. The in-process cache is
// disabled because other processes write to the same directory.
type DiskStore struct {
	d    *diskv.Diskv
	root string
}

// NewDiskStore creates a file-backed store rooted at root.
func NewDiskStore(root string) (*DiskStore, error) {
	dataDir := filepath.Join(root, "data")
	tmpDir := filepath.Join(root, "tmp")

	for _, dir := range []string{dataDir, tmpDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	d := diskv.New(diskv.Options{
		BasePath:     dataDir,
		TempDir:      tmpDir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 0,
		PathPerm:     0755,
		FilePerm:     0644,
	})
	return &DiskStore{d: d, root: root}, nil
}

func (s *DiskStore) Get(key string) ([]byte, error) {
	v, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return v, nil
}

func (s *DiskStore) Set(key string, value []byte) error {
	if err := s.d.Write(key, value); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *DiskStore) Remove(key string) error {
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("erasing %s: %w", key, err)
	}
	return nil
}

func (s *DiskStore) Close() error { return nil }

// Compile-time check that DiskStore implements anchor.KeyValue
var _ anchor.KeyValue = (*DiskStore)(nil)
