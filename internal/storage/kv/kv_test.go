package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfolio/internal/platform/logger"
)

type prefs struct {
	Theme  string `json:"theme"`
	Locale string `json:"locale"`
}

func TestMemoryRoundTrip(t *testing.T) {
	s := NewMemory()

	Set(s, "prefs", prefs{Theme: "dark", Locale: "en"})
	got := Get(s, "prefs", prefs{Theme: "light"})
	assert.Equal(t, prefs{Theme: "dark", Locale: "en"}, got)

	s.Delete("prefs")
	got = Get(s, "prefs", prefs{Theme: "light"})
	assert.Equal(t, "light", got.Theme)
}

func TestGetFallsBackOnMissingKey(t *testing.T) {
	s := NewMemory()
	assert.Equal(t, 42, Get(s, "absent", 42))
	assert.Nil(t, Get(s, "absent", []string(nil)))
}

func TestGetFallsBackOnMalformedEntry(t *testing.T) {
	s := NewMemory()
	s.Write("broken", []byte("{not json"))
	assert.Equal(t, prefs{Theme: "light"}, Get(s, "broken", prefs{Theme: "light"}))

	// Wrong shape, valid JSON: still the fallback.
	s.Write("number", []byte("123"))
	assert.Equal(t, prefs{}, Get(s, "number", prefs{}))
}

func TestMemoryCopiesStoredBytes(t *testing.T) {
	s := NewMemory()
	raw := []byte(`"hello"`)
	s.Write("k", raw)
	raw[1] = 'x'

	got, ok := s.Read("k")
	require.True(t, ok)
	assert.Equal(t, []byte(`"hello"`), got)
}

func TestFilePersistsAcrossReopen(t *testing.T) {
	path := DefaultPath(t.TempDir())
	log := logger.Discard()

	s := OpenFile(path, log)
	Set(s, "transactions", []string{"a", "b"})
	Set(s, "theme", "dark")
	s.Delete("theme")

	reopened := OpenFile(path, log)
	assert.Equal(t, []string{"a", "b"}, Get(reopened, "transactions", []string(nil)))
	_, ok := reopened.Read("theme")
	assert.False(t, ok)
}

func TestFileStartsFreshOnCorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0o600))

	s := OpenFile(path, logger.Discard())
	_, ok := s.Read("anything")
	assert.False(t, ok)

	// The store is still writable after discarding the corrupt snapshot.
	Set(s, "k", 1)
	assert.Equal(t, 1, Get(s, "k", 0))
}
