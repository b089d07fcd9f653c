package kv

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// File persists entries as a single JSON object on disk. Every write rewrites
// the file through a temp-file rename so a crash mid-write leaves the previous
// snapshot intact. Disk failures are logged at debug and otherwise ignored.
type File struct {
	mu      sync.Mutex
	path    string
	log     *slog.Logger
	entries map[string]json.RawMessage
}

// OpenFile loads the store at path, starting empty when the file is missing
// or unreadable.
func OpenFile(path string, log *slog.Logger) *File {
	f := &File{
		path:    path,
		log:     log,
		entries: make(map[string]json.RawMessage),
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return f
	}
	if err := json.Unmarshal(raw, &f.entries); err != nil {
		log.Debug("local store unreadable, starting fresh", "path", path, "error", err)
		f.entries = make(map[string]json.RawMessage)
	}
	return f
}

func (f *File) Read(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.entries[key]
	if !ok {
		return nil, false
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return cp, true
}

func (f *File) Write(key string, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make(json.RawMessage, len(value))
	copy(cp, value)
	f.entries[key] = cp
	f.flushLocked()
}

func (f *File) Delete(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	f.flushLocked()
}

func (f *File) flushLocked() {
	raw, err := json.Marshal(f.entries)
	if err != nil {
		f.log.Debug("local store marshal failed", "error", err)
		return
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		f.log.Debug("local store write failed", "path", f.path, "error", err)
		return
	}
	if err := os.Rename(tmp, f.path); err != nil {
		f.log.Debug("local store rename failed", "path", f.path, "error", err)
	}
}

// DefaultPath places the store file inside dir.
func DefaultPath(dir string) string {
	return filepath.Join(dir, "shopfolio-state.json")
}
