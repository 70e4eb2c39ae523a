package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
)

// ErrNotReady is returned by Origin.Wait when the context ends before the
// origin has been resolved.
var ErrNotReady = errors.New("backend origin not resolved")

// Origin holds the backend base address. It starts with a default value and
// becomes ready exactly once; readers that need the settled value call Wait.
type Origin struct {
	mu    sync.RWMutex
	value string
	ready chan struct{}
	once  sync.Once
}

// NewOrigin returns an unresolved Origin holding def.
func NewOrigin(def string) *Origin {
	return &Origin{
		value: strings.TrimRight(def, "/"),
		ready: make(chan struct{}),
	}
}

// ResolvedOrigin returns an Origin that is already ready.
func ResolvedOrigin(value string) *Origin {
	o := NewOrigin(value)
	o.settle("")
	return o
}

// Get returns the current value without waiting.
func (o *Origin) Get() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// Ready is closed once the origin has been settled.
func (o *Origin) Ready() <-chan struct{} {
	return o.ready
}

// IsReady reports whether the origin has been settled.
func (o *Origin) IsReady() bool {
	select {
	case <-o.ready:
		return true
	default:
		return false
	}
}

// Wait blocks until the origin is settled and returns its value.
func (o *Origin) Wait(ctx context.Context) (string, error) {
	select {
	case <-o.ready:
		return o.Get(), nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrNotReady, ctx.Err())
	}
}

// settle replaces the value when v is non-empty and marks the origin ready.
// Only the first call has any effect.
func (o *Origin) settle(v string) {
	o.once.Do(func() {
		if v != "" {
			o.mu.Lock()
			o.value = strings.TrimRight(v, "/")
			o.mu.Unlock()
		}
		close(o.ready)
	})
}

// runtimeDocument is the JSON shape of the runtime configuration resource.
type runtimeDocument struct {
	BackendURL string `json:"backendUrl"`
}

// Resolver reads the runtime configuration resource.
type Resolver struct {
	// Location is a file path or an http(s) URL.
	Location string
	Client   *http.Client
}

// NewResolver builds a Resolver for location.
func NewResolver(location string) *Resolver {
	return &Resolver{Location: location, Client: http.DefaultClient}
}

// Resolve reads the resource and settles origin. Failures are logged and the
// default value stays in effect; origin is ready when Resolve returns.
func (r *Resolver) Resolve(ctx context.Context, origin *Origin) {
	if r.Location == "" {
		origin.settle("")
		return
	}
	v, err := r.read(ctx)
	if err != nil {
		log.Printf("load runtime config %s: %v", r.Location, err)
		origin.settle("")
		return
	}
	origin.settle(v)
}

func (r *Resolver) read(ctx context.Context) (string, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(r.Location, "http://") || strings.HasPrefix(r.Location, "https://") {
		data, err = r.fetch(ctx)
	} else {
		data, err = os.ReadFile(r.Location)
	}
	if err != nil {
		return "", err
	}
	var doc runtimeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("decode runtime config: %w", err)
	}
	if doc.BackendURL == "" {
		return "", errors.New("runtime config has no backendUrl")
	}
	return doc.BackendURL, nil
}

func (r *Resolver) fetch(ctx context.Context) ([]byte, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.Location, nil)
	if err != nil {
		return nil, fmt.Errorf("create runtime config request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch runtime config: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch runtime config: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
