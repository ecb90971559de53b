package classify

import "context"

// Ranking is a model's answer: labels ordered by descending score.
type Ranking struct {
	Labels []string
	Scores []float64
}

// Model performs single-label zero-shot classification against an arbitrary
// vocabulary. It needs no label-specific training data.
type Model interface {
	Rank(ctx context.Context, text string, labels []string) (Ranking, error)
}

// ModelFunc adapts a function to Model.
type ModelFunc func(ctx context.Context, text string, labels []string) (Ranking, error)

func (f ModelFunc) Rank(ctx context.Context, text string, labels []string) (Ranking, error) {
	return f(ctx, text, labels)
}
