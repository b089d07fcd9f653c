// Package docstore is the remote document store the controller mirrors cart
// state into: point reads, shallow merge-writes, and live subscription per
// document.
package docstore

import "context"

// Document is a schemaless JSON object.
type Document map[string]any

// Store is the document-store contract. Merge semantics are shallow: fields
// present in the partial document replace fields of the stored one, absent
// fields are kept. Last writer wins; there is no version tracking.
type Store interface {
	// Get returns the document, or a wrapped sentinel.ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)

	// UpsertMerge merges partial into the stored document, creating it when
	// absent, and notifies subscribers with the merged result.
	UpsertMerge(ctx context.Context, collection, id string, partial Document) error

	// Subscribe delivers the current document immediately when one exists,
	// then every merged write until the returned unsubscribe runs.
	Subscribe(ctx context.Context, collection, id string, fn func(Document)) (func(), error)
}

func merge(base, partial Document) Document {
	out := make(Document, len(base)+len(partial))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range partial {
		out[k] = v
	}
	return out
}
