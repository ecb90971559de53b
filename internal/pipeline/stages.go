package pipeline

import (
	"context"

	"github.com/joseph-ayodele/docsort/constants"
	"github.com/joseph-ayodele/docsort/internal/classify"
	"github.com/joseph-ayodele/docsort/internal/detect"
	"github.com/joseph-ayodele/docsort/internal/ocr"
)

type Detector interface {
	Detect(path string) detect.Verdict
}

type Repairer interface {
	Repair(ctx context.Context, src, outDir string) (string, error)
	Text(path string) (string, error)
}

type Extractor interface {
	Extract(ctx context.Context, src, outDir string) (ocr.Result, error)
}

type Classifier interface {
	Classify(ctx context.Context, text string) (classify.Result, error)
}

type Router interface {
	Route(artifact, root string, label constants.Label) (string, error)
}

// Stages bundles the per-document stage implementations.
type Stages struct {
	Detector   Detector
	Repairer   Repairer
	Extractor  Extractor
	Classifier Classifier
	Router     Router
}

// Observer is notified of every finished document. Errors are logged and
// never affect the batch.
type Observer interface {
	Observe(ctx context.Context, runID string, o Outcome) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, runID string, o Outcome) error

func (f ObserverFunc) Observe(ctx context.Context, runID string, o Outcome) error {
	return f(ctx, runID, o)
}

// beginner is implemented by observers that want the batch size up front.
type beginner interface {
	Begin(total int)
}
