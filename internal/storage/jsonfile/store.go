package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandevgo/everebot/internal/core"
	"github.com/sandevgo/everebot/pkg/log"
)

var ErrInvalidKey = errors.New("invalid context key")

// Store keeps one JSON array of records per context key in dir.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create memory directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file backing key.
func (s *Store) Path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Read returns the stored records for key. found is false when no file
// exists. A file that exists but does not decode yields *core.StorageReadError.
func (s *Store) Read(ctx context.Context, key string) (records []core.Record, found bool, err error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, &core.StorageReadError{Key: key, Path: path, Err: err}
	}

	if err := json.Unmarshal(data, &records); err != nil {
		return nil, true, &core.StorageReadError{Key: key, Path: path, Err: err}
	}

	log.FromCtx(ctx).Debug().Str("key", key).Int("count", len(records)).Msg("read history file")
	return records, true, nil
}

// Write replaces the file for key. The content goes to a temporary file in
// the same directory first and is renamed over the old one.
func (s *Store) Write(ctx context.Context, key string, records []core.Record) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}

	if records == nil {
		records = []core.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close history: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to chmod history: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save history: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("key", key).Int("count", len(records)).Msg("wrote history file")
	return nil
}

// Remove deletes the file for key. A missing file is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove history: %w", err)
	}
	return nil
}

// Keys lists the context keys that have a file.
func (s *Store) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list memory directory: %w", err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	return keys, nil
}
