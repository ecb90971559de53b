// Package classify labels recovered text with a zero-shot model.
package classify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/docsort/constants"
	"github.com/joseph-ayodele/docsort/internal/common"
)

// Result is the single label chosen for a text.
type Result struct {
	Label   constants.Label
	Score   float64
	Skipped bool // blank input, model not invoked
}

type Classifier struct {
	model  Model
	labels []string
	logger *slog.Logger
}

// NewClassifier binds a model to the fixed label vocabulary.
func NewClassifier(model Model, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{model: model, labels: constants.LabelVocabulary(), logger: logger}
}

// Classify returns the top-ranked label. Blank text short-circuits to
// "unknown" without calling the model. Model errors are not retried.
func (c *Classifier) Classify(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{Label: constants.Unknown, Skipped: true}, nil
	}

	r, err := c.model.Rank(ctx, text, c.labels)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", common.ErrClassificationFailed, err)
	}
	if len(r.Labels) == 0 || len(r.Labels) != len(r.Scores) {
		return Result{}, fmt.Errorf("%w: %v", common.ErrClassificationFailed, errors.New("empty or malformed ranking"))
	}
	label, ok := constants.IsKnown(r.Labels[0])
	if !ok {
		return Result{}, fmt.Errorf("%w: label %q is outside the vocabulary", common.ErrClassificationFailed, r.Labels[0])
	}

	c.logger.Info("classified", "label", string(label), "score", fmt.Sprintf("%.2f", r.Scores[0]))
	return Result{Label: label, Score: r.Scores[0]}, nil
}
