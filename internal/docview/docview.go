// Package docview fetches the bytes behind a renderable location and turns
// them into something a terminal can show.
package docview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"unicode/utf8"

	pdfutil "github.com/dharsanguruparan/LinguaShelf/internal/pdf"
)

// ErrUnsupportedScheme is returned for locations the Fetcher cannot read.
var ErrUnsupportedScheme = errors.New("unsupported location scheme")

// ObjectReader downloads s3:// locations. *s3storage.Storage satisfies it.
type ObjectReader interface {
	Download(ctx context.Context, location string) ([]byte, error)
}

// Fetcher reads http(s), file and s3 locations.
type Fetcher struct {
	HTTP    *http.Client
	Objects ObjectReader
}

// Fetch returns the document bytes at location.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("parse location: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
		return f.fetchHTTP(ctx, location)
	case "file":
		data, err := os.ReadFile(u.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", u.Path, err)
		}
		return data, nil
	case "s3":
		if f.Objects == nil {
			return nil, fmt.Errorf("%w: s3 storage not configured", ErrUnsupportedScheme)
		}
		return f.Objects.Download(ctx, location)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, location string) ([]byte, error) {
	client := f.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("create document request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch document: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Rendering is the terminal form of a document.
type Rendering struct {
	MediaType string
	Pages     int
	Text      string
}

// Preview renders data: PDFs through text extraction, text as-is, and
// anything else as a one-line summary.
func Preview(data []byte) (*Rendering, error) {
	if pdfutil.IsPDF(data) {
		doc, err := pdfutil.Extract(data)
		if err != nil {
			return nil, err
		}
		return &Rendering{MediaType: "application/pdf", Pages: len(doc.Pages), Text: doc.Text()}, nil
	}
	mediaType := http.DetectContentType(data)
	if strings.HasPrefix(mediaType, "text/") && utf8.Valid(data) {
		return &Rendering{MediaType: mediaType, Pages: 1, Text: string(data)}, nil
	}
	return &Rendering{
		MediaType: mediaType,
		Text:      fmt.Sprintf("[%s document, %d bytes]", mediaType, len(data)),
	}, nil
}
