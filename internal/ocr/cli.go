package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/docsort/internal/runner"
)

// CLIConfig configures the tesseract binary engine.
type CLIConfig struct {
	Tesseract   string   // binary name or absolute path; if empty -> "tesseract"
	Languages   []string // default hin, eng
	TessdataDir string
}

// CLIEngine shells out to the tesseract binary for each page. Its scratch
// directory lives as long as the engine.
type CLIEngine struct {
	cfg    CLIConfig
	runner runner.Runner
	logger *slog.Logger
	tmpDir string
	seq    int
}

func NewCLIEngine(cfg CLIConfig, r runner.Runner, logger *slog.Logger) (*CLIEngine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"hin", "eng"}
	}
	tmpDir, err := os.MkdirTemp("", "docsort-ocr-*")
	if err != nil {
		return nil, err
	}
	return &CLIEngine{cfg: cfg, runner: r, logger: logger, tmpDir: tmpDir}, nil
}

func (c *CLIEngine) Recognize(ctx context.Context, png []byte) ([]string, error) {
	c.seq++
	img := filepath.Join(c.tmpDir, fmt.Sprintf("page-%06d.png", c.seq))
	if err := os.WriteFile(img, png, 0o600); err != nil {
		return nil, err
	}
	defer os.Remove(img)

	// tesseract <file> stdout -l <lang>
	args := []string{img, "stdout", "-l", strings.Join(c.cfg.Languages, "+")}
	if c.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", c.cfg.TessdataDir)
	}
	out, errb, err := c.runner.Run(ctx, c.cfg.Tesseract, args...)
	if err != nil {
		return nil, fmt.Errorf("tesseract: %w: %s", err, runner.Truncate(strings.TrimSpace(string(errb)), 512))
	}
	return SplitParagraphs(string(out)), nil
}

func (c *CLIEngine) Close() error {
	return os.RemoveAll(c.tmpDir)
}
