// Package pipeline drives documents through detection, recovery,
// classification and routing.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/docsort/constants"
	"github.com/joseph-ayodele/docsort/internal/common"
)

// Dirs are the output roots for the two recovery paths.
type Dirs struct {
	Repaired string
	OCR      string
}

// Processor runs the per-document state machine:
// Pending -> Detecting -> {Repairing|Extracting} -> Classifying -> Routing -> Done,
// with Errored reachable from any non-terminal state.
type Processor struct {
	stages Stages
	dirs   Dirs
	logger *slog.Logger
}

func NewProcessor(stages Stages, dirs Dirs, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{stages: stages, dirs: dirs, logger: logger}
}

// Process handles one document. The returned Outcome is always terminal and
// carries the stage error, if any. An artifact that was produced but never
// filed is removed.
func (p *Processor) Process(ctx context.Context, src string) (out Outcome) {
	ctx = common.WithSource(ctx, src)
	out = Outcome{Source: src, Label: constants.Unclassified, Started: time.Now()}
	out.enter(constants.StatePending)

	var artifact string
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("stage panicked", "file", out.Name(), "state", out.State, "panic", r)
			out.Err = common.NewAppError("PANIC", fmt.Sprintf("%s stage panicked", out.State), fmt.Errorf("%v", r))
		}
		if out.Err != nil {
			if artifact != "" {
				p.discard(artifact)
			}
			out.Artifact = ""
			out.enter(constants.StateErrored)
		}
		out.Finished = time.Now()
	}()

	out.enter(constants.StateDetecting)
	v := p.stages.Detector.Detect(src)
	out.Pages = v.Pages
	if v.Err != nil {
		p.logger.Warn("document unreadable on detection, treating as scanned", "file", out.Name(), "error", v.Err)
	}

	var text, root string
	if v.Digital {
		out.Kind = constants.KindDigital
		out.enter(constants.StateRepairing)
		path, err := p.stages.Repairer.Repair(ctx, src, p.dirs.Repaired)
		if err != nil {
			out.Err = err
			return out
		}
		artifact = path
		if text, err = p.stages.Repairer.Text(path); err != nil {
			out.Err = err
			return out
		}
		root = p.dirs.Repaired
	} else {
		out.Kind = constants.KindScanned
		out.enter(constants.StateExtracting)
		res, err := p.stages.Extractor.Extract(ctx, src, p.dirs.OCR)
		if err != nil {
			out.Err = err
			return out
		}
		artifact, text = res.Path, res.Text
		root = p.dirs.OCR
	}

	out.enter(constants.StateClassifying)
	res, err := p.stages.Classifier.Classify(ctx, text)
	if err != nil {
		out.Err = err
		return out
	}
	out.Label, out.Score = res.Label, res.Score

	out.enter(constants.StateRouting)
	dest, err := p.stages.Router.Route(artifact, root, res.Label)
	if err != nil {
		out.Err = err
		return out
	}
	artifact = ""
	out.Artifact = dest
	out.enter(constants.StateDone)

	p.logger.Info("document done", "file", out.Name(), "kind", string(out.Kind), "label", string(out.Label),
		"score", out.Score, "dest", dest, "duration_ms", time.Since(out.Started).Milliseconds())
	return out
}

func (p *Processor) discard(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		p.logger.Warn("failed to remove unfiled artifact", "file", filepath.Base(path), "error", err)
	}
}
