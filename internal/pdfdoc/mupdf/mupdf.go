// Package mupdf implements pdfdoc on top of MuPDF via go-fitz.
package mupdf

import (
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/joseph-ayodele/docsort/internal/pdfdoc"
)

// Opener opens documents with go-fitz.
type Opener struct{}

func NewOpener() Opener { return Opener{} }

func (Opener) Open(path string) (pdfdoc.Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("mupdf open: %w", err)
	}
	return &document{doc: doc}, nil
}

type document struct {
	doc *fitz.Document
}

func (d *document) NumPage() int { return d.doc.NumPage() }

func (d *document) Text(page int) (string, error) {
	return d.doc.Text(page)
}

func (d *document) RenderPNG(page int, dpi float64) ([]byte, error) {
	return d.doc.ImagePNG(page, dpi)
}

func (d *document) Close() error {
	return d.doc.Close()
}
