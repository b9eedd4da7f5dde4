// Package index provides the in-memory document store shared between
// ingestion and query handling. The retrieval core never evicts; lifetime
// policy (capacity or TTL) is injected by the owning layer.
package index

import (
	"sync"
	"time"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/api"
)

type entry struct {
	doc      *api.Document
	addedAt  time.Time
	lastUsed time.Time
}

// Index is a keyed store of ingested documents. Writes are whole-document
// inserts; documents are immutable once stored, so a single lock around
// insert and lookup is sufficient.
type Index struct {
	mu   sync.RWMutex
	docs map[string]*entry

	capacity int
	ttl      time.Duration
	now      func() time.Time
}

type Option func(*Index)

func New(opts ...Option) *Index {
	idx := &Index{
		docs: make(map[string]*entry),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// WithCapacity bounds the index to n documents, evicting the least
// recently used on overflow. Zero means unbounded.
func WithCapacity(n int) Option {
	return func(idx *Index) {
		idx.capacity = n
	}
}

// WithTTL expires documents d after insertion. Expiry is lazy: expired
// entries are dropped on access. Zero means no expiry.
func WithTTL(d time.Duration) Option {
	return func(idx *Index) {
		idx.ttl = d
	}
}

func (idx *Index) Put(id string, doc *api.Document) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	now := idx.now()
	idx.docs[id] = &entry{doc: doc, addedAt: now, lastUsed: now}

	if idx.capacity > 0 {
		for len(idx.docs) > idx.capacity {
			idx.evictOldest()
		}
	}
}

func (idx *Index) Get(id string) (*api.Document, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	e, ok := idx.docs[id]
	if !ok {
		return nil, false
	}

	if idx.expired(e) {
		delete(idx.docs, id)
		return nil, false
	}

	e.lastUsed = idx.now()
	return e.doc, true
}

func (idx *Index) Delete(ids ...string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, id := range ids {
		delete(idx.docs, id)
	}
}

func (idx *Index) Len() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.dropExpired()
	return len(idx.docs)
}

func (idx *Index) List() []string {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.dropExpired()
	ids := make([]string, 0, len(idx.docs))
	for id := range idx.docs {
		ids = append(ids, id)
	}
	return ids
}

// evictOldest removes the least recently used entry. Callers must hold the
// write lock.
func (idx *Index) evictOldest() {
	var oldestID string
	var oldest time.Time
	first := true

	for id, e := range idx.docs {
		if first || e.lastUsed.Before(oldest) {
			oldestID = id
			oldest = e.lastUsed
			first = false
		}
	}

	if !first {
		delete(idx.docs, oldestID)
	}
}

func (idx *Index) dropExpired() {
	for id, e := range idx.docs {
		if idx.expired(e) {
			delete(idx.docs, id)
		}
	}
}

func (idx *Index) expired(e *entry) bool {
	return idx.ttl > 0 && idx.now().Sub(e.addedAt) > idx.ttl
}
