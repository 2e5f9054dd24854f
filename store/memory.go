package store

import (
	"context"
	"sync"
)

// MemoryStore keeps documents in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string]Document{}}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[key]
	if !ok {
		return Document{}, ErrNotFound
	}
	doc.Payload = append([]byte(nil), doc.Payload...)
	return doc, nil
}

func (m *MemoryStore) Put(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := prepare(doc)
	if err != nil {
		return err
	}
	doc.Payload = append([]byte(nil), doc.Payload...)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.Key] = doc
	return nil
}

func (m *MemoryStore) Close() error { return nil }
