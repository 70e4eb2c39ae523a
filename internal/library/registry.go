// Package library implements the document side of the client: the registry
// of known files, the upload draft state machine and the file viewer.
package library

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/dharsanguruparan/LinguaShelf/internal/model"
)

var (
	// ErrNotFound is returned when a name is not in the registry.
	ErrNotFound = errors.New("file not found")
)

// Lister reports the backend's current file names.
type Lister interface {
	ListFiles(ctx context.Context) ([]string, error)
}

// Registry is the client's view of documents known to the backend. It is
// replaced wholesale by Refresh and never edited in place.
type Registry struct {
	lister Lister

	mu        sync.RWMutex
	files     []model.FileEntry
	onRefresh []func([]model.FileEntry)
}

// NewRegistry constructs an empty Registry.
func NewRegistry(lister Lister) *Registry {
	return &Registry{lister: lister}
}

// OnRefresh registers fn to run after every successful Refresh.
func (r *Registry) OnRefresh(fn func([]model.FileEntry)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRefresh = append(r.onRefresh, fn)
}

// Refresh replaces the registry with the backend listing. On failure the
// previous contents stay in place and the error is logged and returned.
func (r *Registry) Refresh(ctx context.Context) error {
	names, err := r.lister.ListFiles(ctx)
	if err != nil {
		log.Printf("refresh file list: %v", err)
		return err
	}
	files := make([]model.FileEntry, 0, len(names))
	for _, name := range names {
		files = append(files, model.FileEntry{Name: name})
	}
	r.mu.Lock()
	r.files = files
	hooks := append([]func([]model.FileEntry){}, r.onRefresh...)
	r.mu.Unlock()
	for _, fn := range hooks {
		fn(files)
	}
	return nil
}

// Entries returns a copy of the registry.
func (r *Registry) Entries() []model.FileEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.FileEntry, len(r.files))
	copy(out, r.files)
	return out
}

// Search returns the entries whose name contains term, ignoring case. An
// empty term matches everything. The registry itself is not modified.
func (r *Registry) Search(term string) []model.FileEntry {
	return Filter(r.Entries(), term)
}

// Lookup returns the first entry called name.
func (r *Registry) Lookup(name string) (model.FileEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.files {
		if f.Name == name {
			return f, nil
		}
	}
	return model.FileEntry{}, ErrNotFound
}

// Filter applies the case-insensitive substring match used by Search.
func Filter(files []model.FileEntry, term string) []model.FileEntry {
	needle := strings.ToLower(term)
	out := make([]model.FileEntry, 0, len(files))
	for _, f := range files {
		if strings.Contains(strings.ToLower(f.Name), needle) {
			out = append(out, f)
		}
	}
	return out
}
