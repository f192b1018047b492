package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masmgr/logospots/config"
	"github.com/masmgr/logospots/internal/response"
)

// sampleResponse builds a valid one-logo reply.
func sampleResponse(label string, clarity float64) response.Response {
	return response.New("", 640, 480, []response.BoundingPoly{{
		Classes:  []response.Class{{Class: label}},
		Meta:     response.Meta{Clarity: response.Clarity(clarity)},
		Vertices: []response.Vertex{{X: 10, Y: 10}, {X: 110, Y: 10}, {X: 110, Y: 60}, {X: 10, Y: 60}},
	}})
}

func TestResponseCache_LoadSave(t *testing.T) {
	c := New(nil)

	_, ok := c.Load("https://example.com/a.jpg")
	assert.False(t, ok, "empty cache should miss")

	c.Save("https://example.com/b.jpg", sampleResponse("acme", 0.9))
	c.Save("https://example.com/a.jpg", sampleResponse("globex", 0.4))
	c.Save("https://example.com/a.jpg", sampleResponse("initech", 0.5))

	got, ok := c.Load("https://example.com/a.jpg")
	require.True(t, ok)
	assert.Equal(t, "initech", got.Polygons()[0].Label(), "Save should overwrite")
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"https://example.com/a.jpg", "https://example.com/b.jpg"}, c.Keys())
}

func TestResponseCache_ConcurrentSave(t *testing.T) {
	c := New(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Save(fmt.Sprintf("img-%d", i%26), sampleResponse("acme", 0.5))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 26, c.Len())
}

func TestResponseCache_PersistLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "responses.gob")
	ctx := context.Background()

	original := New(NewFileBackend(path))
	original.Save("https://example.com/a.jpg", sampleResponse("acme", 0.9))
	original.Save("https://example.com/b.jpg", sampleResponse("globex", 0.1))
	require.NoError(t, original.PersistAll(ctx))

	restored := New(NewFileBackend(path))
	require.NoError(t, restored.LoadAll(ctx))

	assert.Equal(t, original.Keys(), restored.Keys())
	for _, k := range original.Keys() {
		want, _ := original.Load(k)
		got, ok := restored.Load(k)
		require.True(t, ok, "missing %s", k)
		assert.Equal(t, want, got)
	}
}

func TestResponseCache_LoadAllMissingFile(t *testing.T) {
	c := New(NewFileBackend(filepath.Join(t.TempDir(), "absent.gob")))
	c.Save("stale", sampleResponse("acme", 0.5))

	require.NoError(t, c.LoadAll(context.Background()))
	assert.Equal(t, 0, c.Len(), "missing file should load as empty")
}

func TestFileBackend_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gob")
	require.NoError(t, os.WriteFile(path, []byte("not gob"), 0644))

	_, err := NewFileBackend(path).ReadAll(context.Background())
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.CacheConfig
		wantErr bool
	}{
		{name: "file", cfg: config.CacheConfig{Backend: config.CacheBackendFile, Path: filepath.Join(dir, "r.gob")}},
		{name: "empty defaults to file", cfg: config.CacheConfig{Path: filepath.Join(dir, "r2.gob")}},
		{name: "sqlite", cfg: config.CacheConfig{Backend: config.CacheBackendSQLite, SQLitePath: filepath.Join(dir, "r.db")}},
		{name: "unknown", cfg: config.CacheConfig{Backend: "memcached"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Open(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, b.Close())
		})
	}
}

func TestFileBackend_ZeroClaritySurvives(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.gob")
	ctx := context.Background()
	b := NewFileBackend(path)

	require.NoError(t, b.WriteAll(ctx, map[string]response.Response{"k": sampleResponse("acme", 0)}))

	got, err := b.ReadAll(ctx)
	require.NoError(t, err)
	require.NoError(t, got["k"].Validate(), "zero clarity must not be lost")
	assert.Equal(t, 0.0, got["k"].Polygons()[0].Clarity())
}
