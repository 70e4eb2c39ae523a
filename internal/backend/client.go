// Package backend is the HTTP client for the remote document service: query
// answering, file listing, uploads and document retrieval.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// OriginSource yields the backend base address once it is settled.
// *config.Origin satisfies it.
type OriginSource interface {
	Wait(ctx context.Context) (string, error)
}

// Client calls the remote service. No client-side timeout is applied; the
// caller's context and the transport defaults govern request lifetime.
type Client struct {
	origin     OriginSource
	httpClient *http.Client
}

// New constructs a Client. A nil httpClient uses http.DefaultClient.
func New(origin OriginSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{origin: origin, httpClient: httpClient}
}

// Answer is the decoded /query response. French is nil when the service did
// not supply a French rendering.
type Answer struct {
	English string  `json:"english_version"`
	Arabic  string  `json:"arabic_version"`
	French  *string `json:"french_version,omitempty"`
	Source  *Source `json:"source"`
}

// Source is the citation attached to an answer.
type Source struct {
	Source string `json:"source"`
}

type queryRequest struct {
	Query string `json:"query"`
}

type listResponse struct {
	Files []string `json:"files"`
}

type uploadResponse struct {
	Status string `json:"status"`
}

// Upload describes one multipart submission to /add_file.
type Upload struct {
	FileName  string
	MediaType string
	Language  string
	Body      io.Reader
}

// Query posts a natural-language query and decodes the structured answer.
func (c *Client) Query(ctx context.Context, query string) (*Answer, error) {
	const op = "query"
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(queryRequest{Query: query}); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/query", buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	var answer Answer
	if err := c.doJSON(req, op, &answer); err != nil {
		return nil, err
	}
	if answer.Source == nil {
		return nil, &Error{Op: op, Message: "response has no source"}
	}
	return &answer, nil
}

// ListFiles returns the names of every document the backend knows, in the
// order the backend reports them.
func (c *Client) ListFiles(ctx context.Context) ([]string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/get_files", nil)
	if err != nil {
		return nil, err
	}
	var out listResponse
	if err := c.doJSON(req, "list files", &out); err != nil {
		return nil, err
	}
	if out.Files == nil {
		return []string{}, nil
	}
	return out.Files, nil
}

// AddFile uploads one document as multipart/form-data with the parts file,
// file_type and language. It returns the status string the backend reports.
func (c *Client) AddFile(ctx context.Context, up Upload) (string, error) {
	const op = "add file"
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", up.FileName)
	if err != nil {
		return "", fmt.Errorf("create multipart file: %w", err)
	}
	if _, err := io.Copy(part, up.Body); err != nil {
		return "", fmt.Errorf("copy file data: %w", err)
	}
	if err := writer.WriteField("file_type", up.MediaType); err != nil {
		return "", fmt.Errorf("write file_type field: %w", err)
	}
	if err := writer.WriteField("language", up.Language); err != nil {
		return "", fmt.Errorf("write language field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/add_file", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	var out uploadResponse
	if err := c.doJSON(req, op, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

// DocumentURL asks the backend for a renderable URL for the named document.
// The response body is plain text holding the URL.
func (c *Client) DocumentURL(ctx context.Context, name string) (string, error) {
	const op = "get document"
	req, err := c.newRequest(ctx, http.MethodGet, "/get_pdf/"+url.PathEscape(name), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.do(req, op)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Op: op, Message: "read body", Err: err}
	}
	location := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if location == "" {
		return "", &Error{Op: op, Message: "empty document url"}
	}
	return location, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	base, err := c.origin.Wait(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, base+path, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// do sends req and converts transport failures and non-2xx statuses into
// *Error. On success the caller owns resp.Body.
func (c *Client) do(req *http.Request, op string) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Message: "request failed", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, decodeError(op, resp)
	}
	return resp, nil
}

func (c *Client) doJSON(req *http.Request, op string, out any) error {
	resp, err := c.do(req, op)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Message: "malformed response", Err: err}
	}
	return nil
}
