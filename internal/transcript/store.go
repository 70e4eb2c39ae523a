// Package transcript holds the ordered chat transcript. Entries are only ever
// appended; insertion order is display order.
package transcript

import (
	"sync"

	"github.com/dharsanguruparan/LinguaShelf/internal/model"
)

// Store is an append-only list of messages guarded by an RWMutex.
type Store struct {
	mu       sync.RWMutex
	messages []model.Message
	notify   chan struct{}
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{notify: make(chan struct{})}
}

// Append adds msgs to the end of the transcript in the given order. Readers
// never observe a partial batch.
func (s *Store) Append(msgs ...model.Message) {
	if len(msgs) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msgs...)
	close(s.notify)
	s.notify = make(chan struct{})
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Messages returns a copy of the whole transcript.
func (s *Store) Messages() []model.Message {
	return s.Since(0)
}

// Since returns a copy of the entries from index n onwards.
func (s *Store) Since(n int) []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n < 0 {
		n = 0
	}
	if n >= len(s.messages) {
		return nil
	}
	out := make([]model.Message, len(s.messages)-n)
	copy(out, s.messages[n:])
	return out
}

// Changed returns a channel that is closed on the next Append.
func (s *Store) Changed() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notify
}
