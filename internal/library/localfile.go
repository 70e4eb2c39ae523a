package library

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// FileHandle is a file chosen for upload.
type FileHandle interface {
	Name() string
	MediaType() string
	Open() (io.ReadCloser, error)
}

// LocalFile is a FileHandle backed by a path on disk.
type LocalFile struct {
	path      string
	mediaType string
}

// OpenLocalFile inspects path and declares its media type from the extension,
// sniffing the first 512 bytes when the extension is unknown.
func OpenLocalFile(path string) (*LocalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if mediaType == "" {
		mediaType, err = sniff(path)
		if err != nil {
			return nil, err
		}
	}
	return &LocalFile{path: path, mediaType: mediaType}, nil
}

func sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return http.DetectContentType(buf[:n]), nil
}

// Name returns the base name sent as the multipart filename.
func (f *LocalFile) Name() string { return filepath.Base(f.path) }

// MediaType returns the declared media type.
func (f *LocalFile) MediaType() string { return f.mediaType }

// Open opens the file for reading.
func (f *LocalFile) Open() (io.ReadCloser, error) { return os.Open(f.path) }
