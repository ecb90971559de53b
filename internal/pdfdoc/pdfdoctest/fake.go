// Package pdfdoctest provides in-memory pdfdoc fakes for tests.
package pdfdoctest

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/joseph-ayodele/docsort/internal/pdfdoc"
)

// ErrNotRegistered is returned when opening a path the fake does not know.
var ErrNotRegistered = errors.New("pdfdoctest: document not registered")

// Doc describes one fake document; Pages holds the text layer of each page.
type Doc struct {
	Pages     []string
	TextErr   error
	RenderErr error
}

// Opener serves fake documents keyed by base name.
type Opener struct {
	mu      sync.Mutex
	docs    map[string]Doc
	OpenErr map[string]error
	Opened  []string
	Renders int
}

func NewOpener() *Opener {
	return &Opener{docs: map[string]Doc{}, OpenErr: map[string]error{}}
}

// Add registers a document under the base name of path.
func (o *Opener) Add(path string, d Doc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.docs[filepath.Base(path)] = d
}

func (o *Opener) Open(path string) (pdfdoc.Document, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	base := filepath.Base(path)
	o.Opened = append(o.Opened, base)
	if err := o.OpenErr[base]; err != nil {
		return nil, err
	}
	d, ok := o.docs[base]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, base)
	}
	return &document{d: d, o: o}, nil
}

type document struct {
	d Doc
	o *Opener
}

func (d *document) NumPage() int { return len(d.d.Pages) }

func (d *document) Text(page int) (string, error) {
	if d.d.TextErr != nil {
		return "", d.d.TextErr
	}
	return d.d.Pages[page], nil
}

// RenderPNG returns a tag naming the page instead of real image bytes.
func (d *document) RenderPNG(page int, dpi float64) ([]byte, error) {
	if d.d.RenderErr != nil {
		return nil, d.d.RenderErr
	}
	d.o.mu.Lock()
	d.o.Renders++
	d.o.mu.Unlock()
	return []byte(fmt.Sprintf("page-%d@%.0f", page+1, dpi)), nil
}

func (d *document) Close() error { return nil }
