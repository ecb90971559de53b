// Package repair normalizes digital PDFs by re-serializing them with Ghostscript.
package repair

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joseph-ayodele/docsort/internal/common"
	"github.com/joseph-ayodele/docsort/internal/pdfdoc"
	"github.com/joseph-ayodele/docsort/internal/runner"
)

type Config struct {
	Candidates []string // executable names probed in order
	Preset     string   // -dPDFSETTINGS value without the slash, default "prepress"
}

type Repairer struct {
	cfg      Config
	runner   runner.Runner
	opener   pdfdoc.Opener
	verifier Verifier // nil skips verification
	logger   *slog.Logger

	mu   sync.Mutex
	tool *Discovery
}

func NewRepairer(cfg Config, r runner.Runner, opener pdfdoc.Opener, verifier Verifier, logger *slog.Logger) *Repairer {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Candidates) == 0 {
		cfg.Candidates = []string{"gswin64c", "gswin32c", "gs"}
	}
	if cfg.Preset == "" {
		cfg.Preset = "prepress"
	}
	return &Repairer{cfg: cfg, runner: r, opener: opener, verifier: verifier, logger: logger}
}

// Tool resolves the repair executable once and memoizes the result, including
// a negative one. Not-found is a fatal configuration error.
func (r *Repairer) Tool(ctx context.Context) (Discovery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tool == nil {
		d := Discover(ctx, r.runner, r.cfg.Candidates)
		r.tool = &d
		if d.Found {
			r.logger.Info("repair tool found", "name", d.Name, "path", d.Path)
		} else {
			r.logger.Error("repair tool not found", "tried", strings.Join(d.Tried, ","))
		}
	}
	if !r.tool.Found {
		return *r.tool, common.NewAppError("CONFIG_ERROR",
			fmt.Sprintf("ghostscript not found (tried %s); please install it", strings.Join(r.tool.Tried, ", ")),
			common.ErrRepairToolNotFound)
	}
	return *r.tool, nil
}

// Repair writes a normalized copy of src to outDir under the same file name.
func (r *Repairer) Repair(ctx context.Context, src, outDir string) (string, error) {
	tool, err := r.Tool(ctx)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", common.ErrRepairFailed, outDir, err)
	}
	out := filepath.Join(outDir, filepath.Base(src))

	start := time.Now()
	_, errb, err := r.runner.Run(ctx, tool.Name,
		"-o", out,
		"-sDEVICE=pdfwrite",
		"-dPDFSETTINGS=/"+r.cfg.Preset,
		src,
	)
	if err != nil {
		r.discard(out)
		return "", fmt.Errorf("%w: %s: %v: %s", common.ErrRepairFailed, tool.Name, err,
			runner.Truncate(strings.TrimSpace(string(errb)), 512))
	}

	if r.verifier != nil {
		pages, err := r.verifier.Verify(out)
		if err != nil {
			r.discard(out)
			return "", fmt.Errorf("%w: verify %s: %v", common.ErrRepairFailed, out, err)
		}
		r.logger.Debug("repaired file verified", "file", out, "pages", pages)
	}

	r.logger.Info("repaired pdf", "file", filepath.Base(src), "out", out, "duration_ms", time.Since(start).Milliseconds())
	return out, nil
}

// Text re-extracts the text layer of a repaired copy for classification.
func (r *Repairer) Text(path string) (string, error) {
	txt, err := pdfdoc.FullText(r.opener, path)
	if err != nil {
		return "", fmt.Errorf("%w: read repaired text: %v", common.ErrRepairFailed, err)
	}
	return txt, nil
}

func (r *Repairer) discard(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		r.logger.Warn("failed to remove partial repair output", "file", path, "error", err)
	}
}
