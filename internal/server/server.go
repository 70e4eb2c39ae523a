// Package server is an in-memory implementation of the document service the
// client talks to. It exists for local development and end-to-end tests; it
// stores uploads, extracts their text and answers queries by keyword match
// without translating anything.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dharsanguruparan/LinguaShelf/internal/config"
	"github.com/dharsanguruparan/LinguaShelf/internal/model"
	"github.com/dharsanguruparan/LinguaShelf/internal/processing"
	"github.com/dharsanguruparan/LinguaShelf/internal/signing"
	"github.com/dharsanguruparan/LinguaShelf/internal/storage"
)

// Server hosts the HTTP handlers of the development backend.
type Server struct {
	cfg       *config.Config
	store     *storage.MemoryStore
	processor *processing.Processor
	signer    *signing.Signer
	once      sync.Once
}

// New creates a configured server.
func New(cfg *config.Config, store *storage.MemoryStore, processor *processing.Processor, signer *signing.Signer) *Server {
	return &Server{
		cfg:       cfg,
		store:     store,
		processor: processor,
		signer:    signer,
	}
}

// Start launches the background extraction workers once.
func (s *Server) Start(ctx context.Context) {
	s.once.Do(func() {
		s.processor.Start(ctx)
	})
}

// Serve launches the HTTP server until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.Start(ctx)
	httpServer := &http.Server{
		Addr:    s.cfg.DevAddress,
		Handler: s.Handler(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the routed handler wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/config.json", s.handleRuntimeConfig)
	mux.HandleFunc("/query", s.handleQuery)
	mux.HandleFunc("/get_files", s.handleListFiles)
	mux.HandleFunc("/add_file", s.handleAddFile)
	mux.HandleFunc("/get_pdf/", s.handleDocumentURL)
	mux.HandleFunc("/download", s.handleDownload)
	return corsMiddleware(loggingMiddleware(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRuntimeConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"backendUrl": s.cfg.DevPublicURL})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]string{"files": s.store.Names()})
}

func (s *Server) handleAddFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxFileSize+4096)
	mr, err := r.MultipartReader()
	if err != nil {
		respondError(w, http.StatusBadRequest, "expecting multipart form")
		return
	}
	doc := &model.Document{Status: model.StatusUploaded}
	var sawFile bool
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			respondError(w, http.StatusBadRequest, "failed to read upload")
			return
		}
		switch part.FormName() {
		case "file":
			data, err := s.readFile(part)
			if err != nil {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			doc.Name = part.FileName()
			doc.Data = data
			doc.Size = int64(len(data))
			sawFile = true
		case "file_type":
			doc.MediaType = readValue(part)
		case "language":
			doc.Language = model.UploadLanguage(readValue(part))
		default:
			part.Close()
		}
	}
	if !sawFile {
		respondError(w, http.StatusBadRequest, "missing file part")
		return
	}
	if doc.Name == "" {
		doc.Name = "upload-" + uuid.NewString()[:8]
	}
	if doc.MediaType == "" {
		doc.MediaType = http.DetectContentType(doc.Data)
	}
	if _, ok := model.ParseUploadLanguage(string(doc.Language)); !ok {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unsupported language %q", doc.Language))
		return
	}
	doc.ID = uuid.NewString()
	s.store.Save(doc)
	s.processor.Submit(processing.Job{Name: doc.Name})
	respondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) readFile(part *multipart.Part) ([]byte, error) {
	defer part.Close()
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(part, s.cfg.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if n > s.cfg.MaxFileSize {
		return nil, fmt.Errorf("file exceeds limit (%d bytes)", s.cfg.MaxFileSize)
	}
	if n == 0 {
		return nil, errors.New("empty file")
	}
	return buf.Bytes(), nil
}

func readValue(part *multipart.Part) string {
	defer part.Close()
	data, _ := io.ReadAll(io.LimitReader(part, 256))
	return strings.TrimSpace(string(data))
}

func (s *Server) handleDocumentURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/get_pdf/")
	if name == "" {
		http.NotFound(w, r)
		return
	}
	if _, err := s.store.Get(name); err != nil {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	link := s.cfg.DevPublicURL + "/download?" + s.signer.Query(name).Encode()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, link)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name, err := s.signer.Verify(r.URL.Query())
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, signing.ErrExpired) || errors.Is(err, signing.ErrSignature) {
			status = http.StatusUnauthorized
		}
		http.Error(w, err.Error(), status)
		return
	}
	doc, err := s.store.Get(name)
	if err != nil {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", doc.MediaType)
	w.Header().Set("Content-Disposition", "inline; filename*=UTF-8''"+url.PathEscape(doc.Name))
	http.ServeContent(w, r, doc.Name, doc.UpdatedAt, bytes.NewReader(doc.Data))
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"message": msg})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s (%s)", r.Method, r.URL.Path, r.Header.Get("X-Request-ID"), time.Since(start))
	})
}
