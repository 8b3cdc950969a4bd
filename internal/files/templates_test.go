package files

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateStore_MaterializesFallback(t *testing.T) {
	dir := t.TempDir()
	fallback := filepath.Join(dir, "bundled", "Template.docx")
	require.NoError(t, os.MkdirAll(filepath.Dir(fallback), 0755))
	require.NoError(t, os.WriteFile(fallback, []byte("PK fallback"), 0644))

	active := filepath.Join(dir, "data", "Template.docx")
	store := NewTemplateStore("calendar", active, fallback, slog.Default())

	path, err := store.Path()
	require.NoError(t, err)
	assert.Equal(t, active, path)

	data, err := os.ReadFile(active)
	require.NoError(t, err)
	assert.Equal(t, "PK fallback", string(data))

	// The fallback is only consulted once.
	require.NoError(t, os.WriteFile(fallback, []byte("PK changed"), 0644))
	data, err = store.Read()
	require.NoError(t, err)
	assert.Equal(t, "PK fallback", string(data))
}

func TestTemplateStore_NotFound(t *testing.T) {
	dir := t.TempDir()
	store := NewTemplateStore("quotes", filepath.Join(dir, "a.docx"), filepath.Join(dir, "b.docx"), nil)

	_, err := store.Path()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTemplateNotFound))
	assert.Contains(t, err.Error(), "quotes template")

	_, err = store.Info()
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = NewTemplateStore("x", filepath.Join(dir, "a.docx"), "", nil).Path()
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestTemplateStore_UpdateAndInfo(t *testing.T) {
	dir := t.TempDir()
	active := filepath.Join(dir, "nested", "Template_quotes.docx")
	store := NewTemplateStore("quotes", active, "", slog.Default())

	info, err := store.Update([]byte("PK\x03\x04 new template"))
	require.NoError(t, err)

	assert.Equal(t, active, info.Path)
	assert.Equal(t, int64(len("PK\x03\x04 new template")), info.SizeBytes)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`, info.ModifiedUTC)

	entries, err := os.ReadDir(filepath.Dir(active))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file %s left behind", e.Name())
	}

	again, err := store.Info()
	require.NoError(t, err)
	assert.Equal(t, info, again)
}

func TestTemplateStore_ConcurrentUpdates(t *testing.T) {
	dir := t.TempDir()
	active := filepath.Join(dir, "Template.docx")
	store := NewTemplateStore("calendar", active, "", nil)

	payloads := []string{"PK one", "PK two", "PK three", "PK four"}
	var wg sync.WaitGroup
	for _, p := range payloads {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			_, err := store.Update([]byte(p))
			assert.NoError(t, err)
		}(p)
	}
	wg.Wait()

	data, err := os.ReadFile(active)
	require.NoError(t, err)
	assert.Contains(t, payloads, string(data), "the file holds exactly one complete upload")
}

func TestTemplateStore_ConcurrentMaterialize(t *testing.T) {
	dir := t.TempDir()
	fallback := filepath.Join(dir, "fallback.docx")
	require.NoError(t, os.WriteFile(fallback, []byte("PK fallback"), 0644))
	store := NewTemplateStore("calendar", filepath.Join(dir, "out", "Template.docx"), fallback, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Path()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	data, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, "PK fallback", string(data))
}
