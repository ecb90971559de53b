// Package detect decides whether a PDF already carries a usable text layer.
package detect

import (
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/docsort/internal/pdfdoc"
)

// Verdict is the detector's read-only assessment of a document.
type Verdict struct {
	Digital   bool
	Pages     int
	TextPages int
	Err       error // open/read failure; Digital is false when set
}

type Detector struct {
	opener pdfdoc.Opener
	logger *slog.Logger
}

func NewDetector(opener pdfdoc.Opener, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{opener: opener, logger: logger}
}

// Detect counts pages with non-blank extractable text. The document is digital
// when at least half of its pages have text. Unreadable documents are reported
// as non-digital so they still get an optical extraction attempt.
func (d *Detector) Detect(path string) Verdict {
	doc, err := d.opener.Open(path)
	if err != nil {
		d.logger.Warn("detect open failed, treating as scanned", "file", path, "error", err)
		return Verdict{Err: err}
	}
	defer doc.Close()

	v := Verdict{Pages: doc.NumPage()}
	for i := 0; i < v.Pages; i++ {
		txt, err := doc.Text(i)
		if err != nil {
			d.logger.Warn("detect page text failed, treating as scanned", "file", path, "page", i+1, "error", err)
			return Verdict{Pages: v.Pages, Err: err}
		}
		if strings.TrimSpace(txt) != "" {
			v.TextPages++
		}
	}
	// text_pages >= pages/2 in integers; a document without any text page is never digital
	v.Digital = v.TextPages > 0 && 2*v.TextPages >= v.Pages
	d.logger.Debug("detect verdict", "file", path, "pages", v.Pages, "text_pages", v.TextPages, "digital", v.Digital)
	return v
}
