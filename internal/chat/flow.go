// Package chat turns typed queries into transcript entries: the query is
// echoed immediately, sent to the backend, and the answer is split into one
// entry per rendering followed by a citation.
package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/dharsanguruparan/LinguaShelf/internal/backend"
	"github.com/dharsanguruparan/LinguaShelf/internal/model"
	"github.com/dharsanguruparan/LinguaShelf/internal/transcript"
)

const (
	// FailureNotice is the single entry appended when a query fails.
	FailureNotice = "Error: Could not reach the server"
	// Unavailable replaces a rendering the backend did not supply.
	Unavailable = "Not available"
)

var errEmptyAnswer = errors.New("empty answer")

// Querier is the slice of the backend client the flow needs.
type Querier interface {
	Query(ctx context.Context, query string) (*backend.Answer, error)
}

// Flow owns the pending input and the mutation side of a transcript.
//
// Answers are applied in submission order: each submission takes a sequence
// number and a batch that completes early waits in ready until every earlier
// submission has settled.
type Flow struct {
	querier Querier
	store   *transcript.Store

	mu      sync.Mutex
	input   string
	nextSeq uint64
	applied uint64
	ready   map[uint64][]model.Message
	pending int
}

// New constructs a Flow writing into store.
func New(querier Querier, store *transcript.Store) *Flow {
	return &Flow{
		querier: querier,
		store:   store,
		ready:   make(map[uint64][]model.Message),
	}
}

// SetInput replaces the pending input.
func (f *Flow) SetInput(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = s
}

// Input returns the pending input.
func (f *Flow) Input() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// Pending reports how many queries are in flight.
func (f *Flow) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// Send submits the pending input.
func (f *Flow) Send(ctx context.Context) bool {
	return f.Submit(ctx, f.Input())
}

// Submit echoes query into the transcript, clears the pending input, asks the
// backend and appends the answer. Blank queries are ignored and Submit returns
// false. Submit blocks until the answer has been handed to the transcript
// sequencer; it is safe to call from several goroutines.
func (f *Flow) Submit(ctx context.Context, query string) bool {
	if strings.TrimSpace(query) == "" {
		return false
	}
	f.mu.Lock()
	seq := f.nextSeq
	f.nextSeq++
	f.pending++
	f.store.Append(model.TextMessage(query, model.LanguageNone))
	f.input = ""
	f.mu.Unlock()

	var batch []model.Message
	answer, err := f.querier.Query(ctx, query)
	if err == nil && answer == nil {
		err = errEmptyAnswer
	}
	if err != nil {
		log.Printf("chat query failed: %v", err)
		batch = []model.Message{model.TextMessage(FailureNotice, model.LanguageNone)}
	} else {
		batch = Render(answer)
	}
	f.settle(seq, batch)
	return true
}

func (f *Flow) settle(seq uint64, batch []model.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending--
	f.ready[seq] = batch
	for {
		next, ok := f.ready[f.applied]
		if !ok {
			return
		}
		delete(f.ready, f.applied)
		f.applied++
		f.store.Append(next...)
	}
}

// Render decomposes an answer into English, Arabic and French entries
// followed by the citation.
func Render(a *backend.Answer) []model.Message {
	french := ""
	if a.French != nil {
		french = *a.French
	}
	source := ""
	if a.Source != nil {
		source = a.Source.Source
	}
	return []model.Message{
		model.TextMessage("English Version: "+orUnavailable(a.English), model.LanguageEnglish),
		model.TextMessage("Arabic Version: "+orUnavailable(a.Arabic), model.LanguageArabic),
		model.TextMessage("French Version: "+orUnavailable(french), model.LanguageFrench),
		model.SourceMessage("Source: " + source),
	}
}

func orUnavailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unavailable
	}
	return s
}
