// Package store persists opaque documents by key. It backs the compiled
// rule-set cache; nothing in it knows what a rule set is.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no document exists for a key.
var ErrNotFound = errors.New("document not found")

// Document is one stored record.
type Document struct {
	Key       string
	Payload   []byte
	UpdatedAt time.Time
}

// Store is a keyed document store. Put is an upsert; concurrent writers to
// the same key are last-writer-wins.
type Store interface {
	Get(ctx context.Context, key string) (Document, error)
	Put(ctx context.Context, doc Document) error
	Close() error
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// prepare validates doc and stamps UpdatedAt when it is unset.
func prepare(doc Document) (Document, error) {
	if doc.Key == "" {
		return Document{}, errors.New("document key is required")
	}
	if len(doc.Payload) == 0 {
		return Document{}, errors.New("document payload is required")
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now()
	}
	doc.UpdatedAt = fromMillis(toMillis(doc.UpdatedAt))
	return doc, nil
}
