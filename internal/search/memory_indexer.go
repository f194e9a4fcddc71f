package search

import (
	"context"
	"sync"
)

// MemoryIndexer keeps documents in a map. Used by tests.
type MemoryIndexer struct {
	mu   sync.Mutex
	docs map[uint]*Document
}

func NewMemoryIndexer() *MemoryIndexer {
	return &MemoryIndexer{docs: make(map[uint]*Document)}
}

func (i *MemoryIndexer) Index(_ context.Context, doc *Document) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.docs[doc.ID] = doc
	return nil
}

func (i *MemoryIndexer) Remove(_ context.Context, id uint) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.docs, id)
	return nil
}

// Get returns the indexed document, or nil if absent.
func (i *MemoryIndexer) Get(id uint) *Document {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.docs[id]
}

// Len returns the number of indexed documents.
func (i *MemoryIndexer) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.docs)
}
