// Package tesseract provides the in-process Tesseract recognition engine.
package tesseract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/otiai10/gosseract/v2"
)

type Config struct {
	Languages   []string // tesseract codes, default hin, eng
	TessdataDir string
}

// Engine wraps one gosseract client. Loading the language models dominates
// per-page cost, so one Engine serves a whole batch run. Not safe for
// concurrent use.
type Engine struct {
	client *gosseract.Client
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"hin", "eng"}
	}
	start := time.Now()
	client := gosseract.NewClient()
	if cfg.TessdataDir != "" {
		client.TessdataPrefix = cfg.TessdataDir
	}
	if err := client.SetLanguage(cfg.Languages...); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("tesseract languages: %w", err)
	}
	logger.Info("recognition engine ready", "languages", cfg.Languages,
		"version", client.Version(), "duration_ms", time.Since(start).Milliseconds())
	return &Engine{client: client, logger: logger}, nil
}

func (e *Engine) Recognize(ctx context.Context, png []byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.client.SetImageFromBytes(png); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_PARA)
	if err != nil {
		return nil, fmt.Errorf("paragraphs: %w", err)
	}
	out := make([]string, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, b.Word)
	}
	return out, nil
}

func (e *Engine) Close() error {
	return e.client.Close()
}
