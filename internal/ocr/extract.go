// Package ocr rasterizes scanned PDFs and recovers their text with a recognition engine.
package ocr

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/docsort/constants"
	"github.com/joseph-ayodele/docsort/internal/common"
	"github.com/joseph-ayodele/docsort/internal/pdfdoc"
)

const DefaultDPI = 200

type Config struct {
	DPI int // rasterization DPI, default 200
}

// Result describes one text artifact.
type Result struct {
	Path     string // {outDir}/{base}_ocr.txt
	Pages    int
	Text     string // recognized fragments only, pages joined by newlines
	Duration time.Duration
}

type Extractor struct {
	cfg    Config
	opener pdfdoc.Opener
	engine Engine
	logger *slog.Logger
}

// NewExtractor wires the shared engine; the extractor never constructs one.
func NewExtractor(cfg Config, opener pdfdoc.Opener, engine Engine, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DPI <= 0 {
		cfg.DPI = DefaultDPI
	}
	return &Extractor{cfg: cfg, opener: opener, engine: engine, logger: logger}
}

// OutputPath is the deterministic artifact path for src.
func OutputPath(src, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(outDir, base+constants.OCRSuffix)
}

// Extract renders every page in order, recognizes it and appends a page block
// to the text artifact. A failed extraction removes the partial artifact.
func (e *Extractor) Extract(ctx context.Context, src, outDir string) (res Result, err error) {
	start := time.Now()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("%w: create %s: %v", common.ErrExtractionFailed, outDir, err)
	}

	doc, err := e.opener.Open(src)
	if err != nil {
		return Result{}, fmt.Errorf("%w: open: %v", common.ErrExtractionFailed, err)
	}
	defer doc.Close()

	res.Path = OutputPath(src, outDir)
	f, err := os.Create(res.Path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: create artifact: %v", common.ErrExtractionFailed, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close artifact: %v", common.ErrExtractionFailed, cerr)
		}
		if err != nil {
			_ = os.Remove(res.Path)
			res = Result{}
		}
	}()

	w := bufio.NewWriter(f)
	var text strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		fragments, err := e.page(ctx, doc, i)
		if err != nil {
			return res, fmt.Errorf("%w: page %d: %v", common.ErrExtractionFailed, i+1, err)
		}
		joined := strings.Join(fragments, " ")
		fmt.Fprintf(w, "Page %d:\n%s\n%s\n", i+1, joined, constants.PageSeparator)
		if joined != "" {
			if text.Len() > 0 {
				text.WriteString("\n")
			}
			text.WriteString(joined)
		}
		res.Pages++
	}
	if err := w.Flush(); err != nil {
		return res, fmt.Errorf("%w: write artifact: %v", common.ErrExtractionFailed, err)
	}

	res.Text = text.String()
	res.Duration = time.Since(start)
	e.logger.Info("ocr extracted", "file", filepath.Base(src), "out", res.Path, "pages", res.Pages,
		"chars", len(res.Text), "duration_ms", res.Duration.Milliseconds())
	return res, nil
}

func (e *Extractor) page(ctx context.Context, doc pdfdoc.Document, i int) ([]string, error) {
	png, err := doc.RenderPNG(i, float64(e.cfg.DPI))
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	fragments, err := e.engine.Recognize(ctx, png)
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}
	e.logger.Debug("ocr page", "page", i+1, "fragments", len(fragments), "png_bytes", len(png))
	return NormalizeFragments(fragments), nil
}
