// Package storage keeps the development backend's documents in memory.
package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/dharsanguruparan/LinguaShelf/internal/model"
)

var (
	// ErrNotFound is returned when no document has the requested name.
	ErrNotFound = errors.New("document not found")
)

// MemoryStore holds documents keyed by name and remembers upload order.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  map[string]*model.Document
	order []string
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]*model.Document),
	}
}

// Save inserts a document. A document with the same name is replaced and
// moves to the end of the upload order.
func (m *MemoryStore) Save(doc *model.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	if _, ok := m.docs[doc.Name]; ok {
		m.removeFromOrder(doc.Name)
	}
	m.docs[doc.Name] = doc
	m.order = append(m.order, doc.Name)
}

func (m *MemoryStore) removeFromOrder(name string) {
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

// UpdateStatus records a processing transition. text replaces the extracted
// text when non-empty.
func (m *MemoryStore) UpdateStatus(id string, status model.DocumentStatus, msg, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range m.docs {
		if doc.ID != id {
			continue
		}
		doc.Status = status
		doc.Message = msg
		if text != "" {
			doc.Text = text
		}
		doc.UpdatedAt = time.Now().UTC()
		return nil
	}
	return ErrNotFound
}

// Get returns a copy of the named document.
func (m *MemoryStore) Get(name string) (*model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[name]
	if !ok {
		return nil, ErrNotFound
	}
	c := *doc
	return &c, nil
}

// Names lists document names in upload order.
func (m *MemoryStore) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Processed returns copies of every document whose text is available.
func (m *MemoryStore) Processed() []*model.Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Document, 0, len(m.order))
	for _, name := range m.order {
		doc := m.docs[name]
		if doc.Status != model.StatusComplete {
			continue
		}
		c := *doc
		out = append(out, &c)
	}
	return out
}
