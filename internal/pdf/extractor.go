// Package pdfutil extracts plain text from PDF documents.
package pdfutil

import (
	"bytes"
	"fmt"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

var magic = []byte("%PDF-")

// IsPDF reports whether data starts with the PDF header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), magic)
}

// Document is the extracted text of a PDF, one entry per non-empty page.
type Document struct {
	Pages []string
}

// Text joins every page with a newline.
func (d *Document) Text() string {
	return strings.Join(d.Pages, "\n")
}

// Extract reads PDF bytes with ledongthuc/pdf. Pages without content are
// skipped.
func Extract(data []byte) (*Document, error) {
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("new pdf reader: %w", err)
	}
	out := &Document{}
	total := doc.NumPage()
	for n := 1; n <= total; n++ {
		p := doc.Page(n)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", n, err)
		}
		out.Pages = append(out.Pages, strings.TrimRight(content, "\n"))
	}
	return out, nil
}

// ExtractText returns the plain text of a PDF.
func ExtractText(data []byte) (string, error) {
	doc, err := Extract(data)
	if err != nil {
		return "", err
	}
	return doc.Text(), nil
}
