package store

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileTier keeps one JSON file per cache key under a directory.
type FileTier struct {
	dir string
}

type fileEntry struct {
	Key       string          `json:"key"`
	ExpiresAt time.Time       `json:"expires_at"`
	Payload   json.RawMessage `json:"payload"`
}

// NewFileTier creates dir if needed.
func NewFileTier(dir string) (*FileTier, error) {
	if dir == "" {
		dir = filepath.Join(".cache", "dashboard")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir %s: %w", dir, err)
	}
	return &FileTier{dir: dir}, nil
}

func (f *FileTier) Name() string { return "file" }

// Dir returns the cache directory.
func (f *FileTier) Dir() string { return f.dir }

func (f *FileTier) path(key string) string {
	return filepath.Join(f.dir, fmt.Sprintf("%x.json", sha1.Sum([]byte(key))))
}

func (f *FileTier) Load(ctx context.Context, key string) ([]byte, time.Time, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, err
	}
	var e fileEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, time.Time{}, false, fmt.Errorf("corrupt cache file for %s: %w", key, err)
	}
	if e.Key != key {
		return nil, time.Time{}, false, nil
	}
	return e.Payload, e.ExpiresAt, true, nil
}

func (f *FileTier) Save(ctx context.Context, key string, payload []byte, expiresAt time.Time) error {
	data, err := json.Marshal(fileEntry{Key: key, ExpiresAt: expiresAt, Payload: payload})
	if err != nil {
		return err
	}
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return os.Rename(tmp, f.path(key))
}

func (f *FileTier) Purge(ctx context.Context, now time.Time) error {
	return f.walk(func(path string, e *fileEntry) error {
		if e != nil && !now.Before(e.ExpiresAt) {
			return os.Remove(path)
		}
		return nil
	})
}

func (f *FileTier) Clear(ctx context.Context) error {
	return f.walk(func(path string, _ *fileEntry) error {
		return os.Remove(path)
	})
}

// walk visits every cache file; e is nil for unreadable files.
func (f *FileTier) walk(visit func(path string, e *fileEntry) error) error {
	files, err := os.ReadDir(f.dir)
	if err != nil {
		return err
	}
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}
		path := filepath.Join(f.dir, file.Name())
		var e *fileEntry
		if data, err := os.ReadFile(path); err == nil {
			var parsed fileEntry
			if json.Unmarshal(data, &parsed) == nil {
				e = &parsed
			}
		}
		if err := visit(path, e); err != nil {
			return err
		}
	}
	return nil
}
