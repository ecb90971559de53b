package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docsort/constants"
	"github.com/joseph-ayodele/docsort/internal/common"
	"github.com/joseph-ayodele/docsort/internal/ingest"
	"github.com/joseph-ayodele/docsort/internal/route"
)

type BatchConfig struct {
	InputDir   string
	ErrorDir   string // empty disables quarantine
	Limit      int    // <= 0 means unlimited
	SkipHidden bool
}

// Orchestrator runs a batch sequentially and isolates failures per document.
type Orchestrator struct {
	cfg        BatchConfig
	proc       *Processor
	quarantine *route.Router
	observers  []Observer
	console    io.Writer
	logger     *slog.Logger
}

// NewOrchestrator builds a batch runner. console receives one
// "Error processing <file>: <err>" line per failed document; nil means stdout.
func NewOrchestrator(cfg BatchConfig, proc *Processor, console io.Writer, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if console == nil {
		console = os.Stdout
	}
	return &Orchestrator{
		cfg:        cfg,
		proc:       proc,
		quarantine: route.NewRouter(route.PolicySuffix, logger),
		console:    console,
		logger:     logger,
	}
}

// AddObserver registers an observer for finished documents.
func (o *Orchestrator) AddObserver(obs Observer) {
	if obs != nil {
		o.observers = append(o.observers, obs)
	}
}

// Run lists the input directory, applies the cap and processes each selected
// document in lexicographic order. The returned error is non-nil only for a
// listing failure, cancellation, or a fatal configuration error; per-document
// failures are reported in the Report. A document interrupted by cancellation
// is recorded but neither reported as failed nor quarantined.
func (o *Orchestrator) Run(ctx context.Context) (Report, error) {
	rep := Report{RunID: uuid.NewString(), InputDir: o.cfg.InputDir, Started: time.Now()}
	ctx = common.WithRunID(ctx, rep.RunID)
	log := o.logger.With("run_id", rep.RunID)

	paths, stats, err := ingest.ListPDFs(o.cfg.InputDir, o.cfg.SkipHidden)
	if err != nil {
		rep.Finished = time.Now()
		return rep, fmt.Errorf("list inputs: %w", err)
	}
	selected, skipped := ingest.Cap(paths, o.cfg.Limit)
	rep.Listed = len(paths)
	for _, s := range skipped {
		rep.Skipped = append(rep.Skipped, filepath.Base(s))
	}
	log.Info("batch starting", "input_dir", o.cfg.InputDir, "scanned", stats.Scanned, "matched", stats.Matched,
		"selected", len(selected), "limit", o.cfg.Limit)
	if len(skipped) > 0 {
		log.Info("processing cap reached, leaving documents untouched", "skipped", len(skipped))
	}

	for _, obs := range o.observers {
		if b, ok := obs.(beginner); ok {
			b.Begin(len(selected))
		}
	}

	for _, src := range selected {
		if err := ctx.Err(); err != nil {
			log.Warn("batch cancelled", "processed", len(rep.Outcomes), "error", err)
			rep.Finished = time.Now()
			return rep, err
		}

		out := o.proc.Process(ctx, src)
		if out.Err != nil && interrupted(ctx, out.Err) {
			log.Warn("batch interrupted, document left in place", "file", out.Name(), "kind", string(out.Kind), "error", out.Err)
			rep.Outcomes = append(rep.Outcomes, out)
			rep.Finished = time.Now()
			if err := ctx.Err(); err != nil {
				return rep, err
			}
			return rep, out.Err
		}
		if out.Err != nil && common.IsFatal(out.Err) {
			log.Error("fatal configuration error, aborting batch", "file", out.Name(), "error", out.Err)
			rep.Outcomes = append(rep.Outcomes, out)
			rep.Aborted = true
			rep.Finished = time.Now()
			return rep, out.Err
		}
		if out.Err != nil {
			o.fail(&out, log)
		}

		rep.Outcomes = append(rep.Outcomes, out)
		o.notify(ctx, rep.RunID, out, log)
	}

	rep.Finished = time.Now()
	log.Info("batch complete",
		"processed", len(rep.Outcomes),
		"done", rep.Count(constants.StateDone),
		"errored", rep.Count(constants.StateErrored),
		"skipped", len(rep.Skipped),
		"duration_ms", rep.Finished.Sub(rep.Started).Milliseconds())
	return rep, nil
}

// fail reports a per-document failure and quarantines an untouched copy of
// the source when an error directory is configured.
func (o *Orchestrator) fail(out *Outcome, log *slog.Logger) {
	_, _ = fmt.Fprintf(o.console, "Error processing %s: %v\n", out.Name(), out.Err)
	log.Error("document failed", "file", out.Name(), "kind", string(out.Kind), "error", out.Err)

	if o.cfg.ErrorDir == "" {
		return
	}
	dest, err := o.quarantine.Copy(out.Source, o.cfg.ErrorDir)
	if err != nil {
		log.Error("quarantine copy failed", "file", out.Name(), "error", err)
		return
	}
	out.Quarantine = dest
	log.Info("document quarantined", "file", out.Name(), "dest", dest)
}

// interrupted reports whether a stage failed because the batch was cancelled
// rather than because the document is bad.
func interrupted(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (o *Orchestrator) notify(ctx context.Context, runID string, out Outcome, log *slog.Logger) {
	for _, obs := range o.observers {
		if err := obs.Observe(ctx, runID, out); err != nil {
			log.Warn("observer failed", "file", out.Name(), "error", err)
		}
	}
}
