package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/LinguaShelf/internal/config"
	"github.com/dharsanguruparan/LinguaShelf/internal/model"
	"github.com/dharsanguruparan/LinguaShelf/internal/processing"
	"github.com/dharsanguruparan/LinguaShelf/internal/server"
	"github.com/dharsanguruparan/LinguaShelf/internal/signing"
	"github.com/dharsanguruparan/LinguaShelf/internal/storage"
)

type testBackend struct {
	url              string
	documentURLCalls atomic.Int64
}

func startBackend(t *testing.T) *testBackend {
	t.Helper()
	tb := &testBackend{}
	cfg := &config.Config{MaxFileSize: 1 << 20, ProcessingPool: 1}
	store := storage.NewMemoryStore()
	s := server.New(cfg, store, processing.New(store, 1), signing.NewSigner([]byte("secret"), time.Minute))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	s.Start(ctx)
	handler := s.Handler()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/get_pdf/") {
			tb.documentURLCalls.Add(1)
		}
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)
	cfg.DevPublicURL = ts.URL
	tb.url = ts.URL
	return tb
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { backendURL = "" })
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestUploadThenList(t *testing.T) {
	url := startBackend(t).url
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	out, err := run(t, "", "--backend", url, "upload", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Uploaded notes.txt")

	out, err = run(t, "", "--backend", url, "files", "search", "NOTES")
	require.NoError(t, err)
	assert.Equal(t, "notes.txt\n", out)

	out, err = run(t, "", "--backend", url, "files", "search", "zzz")
	require.NoError(t, err)
	assert.Equal(t, "(no documents)\n", out)
}

func TestUploadRejectsUnknownLanguage(t *testing.T) {
	url := startBackend(t).url
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	_, err := run(t, "", "--backend", url, "upload", path, "--language", "fr")
	require.Error(t, err)
}

func TestChatLoop(t *testing.T) {
	url := startBackend(t).url
	out, err := run(t, "what is here\n\n/quit\nignored\n", "--backend", url, "chat")
	require.NoError(t, err)
	assert.Contains(t, out, "English Version: No matching passage found.")
	assert.Contains(t, out, "Arabic Version: Not available")
	assert.Contains(t, out, "French Version: Not available")
	assert.Contains(t, out, "  > Source: none")
	assert.NotContains(t, out, "ignored")
}

func TestAskUnreachableBackend(t *testing.T) {
	out, err := run(t, "", "--backend", "http://127.0.0.1:1", "ask", "anything")
	require.NoError(t, err)
	assert.Contains(t, out, "Error: Could not reach the server")
}

func TestChatViewReusesResolvedLocation(t *testing.T) {
	tb := startBackend(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))
	_, err := run(t, "", "--backend", tb.url, "upload", path)
	require.NoError(t, err)

	out, err := run(t, "/view notes.txt\n/view notes.txt\n/close\n/view missing.pdf\n/quit\n", "--backend", tb.url, "chat")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, tb.url+"/download?"))
	assert.Equal(t, int64(1), tb.documentURLCalls.Load())
	assert.Contains(t, out, `no document named "missing.pdf"`)
}

func TestPrintMessagesIsolatesRightToLeft(t *testing.T) {
	var out bytes.Buffer
	printMessages(&out, []model.Message{
		model.TextMessage("English Version: hello", model.LanguageEnglish),
		model.TextMessage("Arabic Version: مرحبا", model.LanguageArabic),
		model.SourceMessage("Source: a.pdf"),
	})
	assert.Equal(t,
		"  English Version: hello\n  \u2067Arabic Version: مرحبا\u2069\n  > Source: a.pdf\n",
		out.String())
}
