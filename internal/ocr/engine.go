package ocr

import "context"

// Engine recognizes text in one rendered page. Implementations are expensive
// to construct and hold mutable state: build one per batch run and use it
// from a single goroutine.
type Engine interface {
	// Recognize returns paragraph-level fragments in reading order.
	Recognize(ctx context.Context, png []byte) ([]string, error)
	Close() error
}
