package library

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dharsanguruparan/LinguaShelf/internal/model"
)

// ErrSuperseded is returned by Open when a later Open or Close replaced it
// before its location was resolved.
var ErrSuperseded = errors.New("view superseded")

// LocationResolver turns a document name into a renderable URL.
type LocationResolver interface {
	DocumentURL(ctx context.Context, name string) (string, error)
}

// ViewerOptions tunes the resolved-location cache. A zero TTL disables it.
type ViewerOptions struct {
	CacheTTL  time.Duration
	CacheSize int
}

// Viewer shows at most one document at a time.
type Viewer struct {
	resolver LocationResolver
	cache    *expirable.LRU[string, string]

	mu      sync.Mutex
	current *model.FileEntry
	gen     uint64
}

// NewViewer constructs a Viewer.
func NewViewer(resolver LocationResolver, opts ViewerOptions) *Viewer {
	v := &Viewer{resolver: resolver}
	if opts.CacheTTL > 0 {
		size := opts.CacheSize
		if size <= 0 {
			size = 128
		}
		v.cache = expirable.NewLRU[string, string](size, nil, opts.CacheTTL)
	}
	return v
}

// Open resolves name through the backend and makes it the viewed document.
// Any document already open is closed first.
func (v *Viewer) Open(ctx context.Context, name string) (model.FileEntry, error) {
	return v.OpenEntry(ctx, model.FileEntry{Name: name})
}

// OpenEntry is Open for an entry that may already carry a renderable
// location, in which case no network call is made.
func (v *Viewer) OpenEntry(ctx context.Context, entry model.FileEntry) (model.FileEntry, error) {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.current = nil
	v.mu.Unlock()

	location, err := v.resolve(ctx, entry)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return model.FileEntry{}, ErrSuperseded
	}
	if err != nil {
		log.Printf("open %s: %v", entry.Name, err)
		return model.FileEntry{}, err
	}
	entry.RenderableLocation = location
	v.current = &entry
	return entry, nil
}

func (v *Viewer) resolve(ctx context.Context, entry model.FileEntry) (string, error) {
	if entry.RenderableLocation != "" {
		return entry.RenderableLocation, nil
	}
	if v.cache != nil {
		if loc, ok := v.cache.Get(entry.Name); ok {
			return loc, nil
		}
	}
	loc, err := v.resolver.DocumentURL(ctx, entry.Name)
	if err != nil {
		return "", err
	}
	if v.cache != nil {
		v.cache.Add(entry.Name, loc)
	}
	return loc, nil
}

// Close discards the viewed document and cancels the effect of any pending
// Open.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	v.current = nil
}

// Current returns the viewed document, if any.
func (v *Viewer) Current() (model.FileEntry, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil {
		return model.FileEntry{}, false
	}
	return *v.current, true
}

// Forget drops the cached location for name.
func (v *Viewer) Forget(name string) {
	if v.cache != nil {
		v.cache.Remove(name)
	}
}

// Reset drops every cached location. It fits Registry.OnRefresh.
func (v *Viewer) Reset(_ []model.FileEntry) {
	if v.cache != nil {
		v.cache.Purge()
	}
}
