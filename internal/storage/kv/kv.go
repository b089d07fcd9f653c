// Package kv provides best-effort local persistence for controller state.
//
// The in-memory model is always authoritative: reads fall back to caller
// defaults on any missing or malformed entry, and writes never fail from the
// caller's perspective. A write that cannot be persisted only costs
// durability for the next process, never correctness of the current one.
package kv

import "encoding/json"

// Store is the raw byte-level persistence surface.
type Store interface {
	Read(key string) ([]byte, bool)
	Write(key string, value []byte)
	Delete(key string)
}

// Get reads and decodes the value at key, returning fallback when the key is
// absent or the stored bytes are not valid JSON for T.
func Get[T any](s Store, key string, fallback T) T {
	raw, ok := s.Read(key)
	if !ok {
		return fallback
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fallback
	}
	return v
}

// Set encodes v as JSON and writes it at key. Serialization failures are
// swallowed: the entry keeps its previous persisted value.
func Set(s Store, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.Write(key, raw)
}
