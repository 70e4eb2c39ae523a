package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/LinguaShelf/internal/config"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(config.ResolvedOrigin(srv.URL), srv.Client())
}

func TestQueryDecodesAnswer(t *testing.T) {
	var got queryRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"english_version":"hello","arabic_version":"مرحبا","french_version":"bonjour","source":{"source":"doc.pdf p.2"}}`))
	}))

	answer, err := c.Query(context.Background(), "greeting?")
	require.NoError(t, err)
	assert.Equal(t, "greeting?", got.Query)
	assert.Equal(t, "hello", answer.English)
	assert.Equal(t, "مرحبا", answer.Arabic)
	require.NotNil(t, answer.French)
	assert.Equal(t, "bonjour", *answer.French)
	assert.Equal(t, "doc.pdf p.2", answer.Source.Source)
}

func TestQueryWithoutFrench(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"english_version":"a","arabic_version":"b","source":{"source":"s"}}`))
	}))
	answer, err := c.Query(context.Background(), "q")
	require.NoError(t, err)
	assert.Nil(t, answer.French)
}

func TestQueryFailures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "server error with json message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(`{"message":"model offline"}`))
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>`))
			},
		},
		{
			name: "missing source",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"english_version":"a","arabic_version":"b"}`))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.Query(context.Background(), "q")
			require.Error(t, err)
			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, "query", apiErr.Op)
			assert.Equal(t, tt.wantStatus, apiErr.Status)
		})
	}
}

func TestQueryUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := New(config.ResolvedOrigin(addr), nil)
	_, err := c.Query(context.Background(), "q")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Zero(t, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "request failed")
}

func TestListFilesKeepsOrder(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_files", r.URL.Path)
		w.Write([]byte(`{"files":["b.pdf","a.pdf","c.docx"]}`))
	}))
	files, err := c.ListFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b.pdf", "a.pdf", "c.docx"}, files)
}

func TestListFilesNullIsEmpty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"files":null}`))
	}))
	files, err := c.ListFiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestAddFileSendsThreeParts(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/add_file", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "report.pdf", hdr.Filename)
		assert.Equal(t, "%PDF-1.4 body", string(data))
		assert.Equal(t, "application/pdf", r.FormValue("file_type"))
		assert.Equal(t, "arabic", r.FormValue("language"))
		w.Write([]byte(`{"status":"success"}`))
	}))
	status, err := c.AddFile(context.Background(), Upload{
		FileName:  "report.pdf",
		MediaType: "application/pdf",
		Language:  "arabic",
		Body:      strings.NewReader("%PDF-1.4 body"),
	})
	require.NoError(t, err)
	assert.Equal(t, "success", status)
}

func TestAddFileRejected(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
	}))
	_, err := c.AddFile(context.Background(), Upload{FileName: "x", Body: strings.NewReader("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file too large")
}

func TestDocumentURLEscapesName(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_pdf/annual report.pdf", r.URL.Path)
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("https://cdn.example/annual.pdf\n"))
	}))
	loc, err := c.DocumentURL(context.Background(), "annual report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/annual.pdf", loc)
}

func TestDocumentURLEmptyBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	_, err := c.DocumentURL(context.Background(), "a.pdf")
	require.Error(t, err)
}

func TestRequestsWaitForOrigin(t *testing.T) {
	origin := config.NewOrigin("http://127.0.0.1:1")
	c := New(origin, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListFiles(ctx)
	require.True(t, errors.Is(err, config.ErrNotReady))
}
