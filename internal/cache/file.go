package cache

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/masmgr/logospots/internal/response"
)

// FileBackend stores the mapping as a single gob-encoded file. Each reply is held
// as its JSON payload since gob does not keep pointers to zero values.
type FileBackend struct {
	path string
}

// NewFileBackend creates a backend for path. The file is created on first write.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// ReadAll decodes the file. A missing file is an empty cache.
func (b *FileBackend) ReadAll(ctx context.Context) (map[string]response.Response, error) {
	f, err := os.Open(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]response.Response{}, nil
		}
		return nil, err
	}
	defer f.Close()

	payloads := make(map[string][]byte)
	if err := gob.NewDecoder(f).Decode(&payloads); err != nil {
		return nil, fmt.Errorf("decode %s: %w", b.path, err)
	}

	entries := make(map[string]response.Response, len(payloads))
	for k, payload := range payloads {
		var r response.Response
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, fmt.Errorf("decode %q: %w", k, err)
		}
		entries[k] = r
	}
	return entries, nil
}

// WriteAll replaces the file atomically.
func (b *FileBackend) WriteAll(ctx context.Context, entries map[string]response.Response) error {
	payloads := make(map[string][]byte, len(entries))
	for k, r := range entries {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode %q: %w", k, err)
		}
		payloads[k] = payload
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := gob.NewEncoder(tmp).Encode(payloads); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", b.path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, b.path)
}

// Close is a no-op.
func (b *FileBackend) Close() error {
	return nil
}
