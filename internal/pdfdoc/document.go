// Package pdfdoc abstracts the read-only view of a PDF the pipeline needs:
// page count, per-page text layer and per-page raster.
package pdfdoc

import (
	"fmt"
	"strings"
)

// Document is an opened PDF. Pages are zero-indexed.
type Document interface {
	NumPage() int
	Text(page int) (string, error)
	RenderPNG(page int, dpi float64) ([]byte, error)
	Close() error
}

// Opener opens documents by path.
type Opener interface {
	Open(path string) (Document, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(path string) (Document, error)

func (f OpenerFunc) Open(path string) (Document, error) { return f(path) }

// FullText opens path and joins every page's text layer with newlines.
func FullText(o Opener, path string) (string, error) {
	doc, err := o.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		txt, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("page %d text: %w", i+1, err)
		}
		pages = append(pages, txt)
	}
	return strings.Join(pages, "\n"), nil
}
