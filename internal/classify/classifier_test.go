package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsort/constants"
	"github.com/joseph-ayodele/docsort/internal/common"
)

type countingModel struct {
	calls  int
	labels []string
	r      Ranking
	err    error
}

func (m *countingModel) Rank(_ context.Context, _ string, labels []string) (Ranking, error) {
	m.calls++
	m.labels = labels
	return m.r, m.err
}

func TestClassify_BlankSkipsModel(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t \r\n"} {
		m := &countingModel{}
		res, err := NewClassifier(m, nil).Classify(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, constants.Unknown, res.Label)
		assert.True(t, res.Skipped)
		assert.Zero(t, m.calls)
	}
}

func TestClassify_TopLabel(t *testing.T) {
	m := &countingModel{r: Ranking{
		Labels: []string{"Dynamic Data", "static data"},
		Scores: []float64{0.81, 0.19},
	}}
	res, err := NewClassifier(m, nil).Classify(context.Background(), "prices as of today")
	require.NoError(t, err)

	assert.Equal(t, constants.DynamicData, res.Label)
	assert.InDelta(t, 0.81, res.Score, 1e-9)
	assert.False(t, res.Skipped)
	assert.Equal(t, 1, m.calls)
	assert.Equal(t, []string{"static data", "dynamic data"}, m.labels)
}

func TestClassify_Failures(t *testing.T) {
	tests := []struct {
		name string
		m    *countingModel
	}{
		{"model error", &countingModel{err: errors.New("503 model loading")}},
		{"empty ranking", &countingModel{}},
		{"mismatched scores", &countingModel{r: Ranking{Labels: []string{"static data"}}}},
		{"outside vocabulary", &countingModel{r: Ranking{Labels: []string{"poetry"}, Scores: []float64{0.9}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewClassifier(tc.m, nil).Classify(context.Background(), "some text")
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrClassificationFailed))
			assert.Equal(t, 1, tc.m.calls, "no retry")
		})
	}
}
