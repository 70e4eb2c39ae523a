// Package processing extracts searchable text from uploaded documents on a
// small pool of goroutines.
package processing

import (
	"context"
	"fmt"
	"log"
	"unicode/utf8"

	"github.com/dharsanguruparan/LinguaShelf/internal/model"
	pdfutil "github.com/dharsanguruparan/LinguaShelf/internal/pdf"
	"github.com/dharsanguruparan/LinguaShelf/internal/storage"
)

// Job names a document to extract.
type Job struct {
	Name string
}

// Processor consumes Jobs and records extracted text in the store.
type Processor struct {
	store   *storage.MemoryStore
	queue   chan Job
	workers int
	// done, when set, receives every finished job name.
	done chan<- string
}

// New builds a Processor with queue capacity tied to worker count.
func New(store *storage.MemoryStore, workers int) *Processor {
	if workers <= 0 {
		workers = 1
	}
	return &Processor{
		store:   store,
		queue:   make(chan Job, workers*4),
		workers: workers,
	}
}

// Notify makes the processor report finished jobs on ch.
func (p *Processor) Notify(ch chan<- string) {
	p.done = ch
}

// Start launches worker goroutines.
func (p *Processor) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		go p.worker(ctx)
	}
}

// Submit queues a job. When the queue is full the document is marked failed.
func (p *Processor) Submit(job Job) {
	select {
	case p.queue <- job:
	default:
		log.Printf("processor queue full, dropping job for %s", job.Name)
		if doc, err := p.store.Get(job.Name); err == nil {
			_ = p.store.UpdateStatus(doc.ID, model.StatusFailed, "processing queue full", "")
		}
	}
}

func (p *Processor) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.queue:
			p.process(job)
			if p.done != nil {
				p.done <- job.Name
			}
		}
	}
}

func (p *Processor) process(job Job) {
	doc, err := p.store.Get(job.Name)
	if err != nil {
		log.Printf("process %s: %v", job.Name, err)
		return
	}
	if err := p.store.UpdateStatus(doc.ID, model.StatusProcessing, "extracting text", ""); err != nil {
		return
	}
	text, err := ExtractText(doc)
	if err != nil {
		log.Printf("extract failed for %s: %v", doc.Name, err)
		_ = p.store.UpdateStatus(doc.ID, model.StatusFailed, err.Error(), "")
		return
	}
	if err := p.store.UpdateStatus(doc.ID, model.StatusComplete, "text extracted", text); err != nil {
		log.Printf("update status failed: %v", err)
	}
}

// ExtractText returns the searchable text of a document: PDFs through
// pdfutil, anything that is valid UTF-8 as-is.
func ExtractText(doc *model.Document) (string, error) {
	if pdfutil.IsPDF(doc.Data) {
		return pdfutil.ExtractText(doc.Data)
	}
	if utf8.Valid(doc.Data) {
		return string(doc.Data), nil
	}
	return "", fmt.Errorf("no text extractor for %s (%s)", doc.Name, doc.MediaType)
}
