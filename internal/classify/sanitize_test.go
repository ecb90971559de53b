package classify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLabelAnswer(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantLabel string
		wantConf  float64
		changed   bool
	}{
		{"clean", `{"label":"static data","confidence":0.8}`, "static data", 0.8, false},
		{"fenced and snake case", "```json\n{\"label\":\"Static_Data\",\"confidence\":0.7}\n```", "static data", 0.7, true},
		{"synonyms", `{"category":"dynamic-data","score":0.6}`, "dynamic data", 0.6, true},
		{"percent string", `{"label":"dynamic data","confidence":"87%"}`, "dynamic data", 0.87, true},
		{"percent number", `{"label":"dynamic data","confidence":64}`, "dynamic data", 0.64, true},
		{"extra keys dropped", `{"label":"static data","confidence":1,"reason":"glossary"}`, "static data", 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changes, err := NormalizeLabelAnswer([]byte(tt.in), nil)
			require.NoError(t, err)

			var m map[string]any
			require.NoError(t, json.Unmarshal(out, &m))
			assert.Len(t, m, 2)
			assert.Equal(t, tt.wantLabel, m["label"])
			assert.InDelta(t, tt.wantConf, m["confidence"], 1e-9)
			assert.Equal(t, tt.changed, len(changes) > 0, "changes: %v", changes)
		})
	}
}

func TestNormalizeLabelAnswer_NotJSON(t *testing.T) {
	_, _, err := NormalizeLabelAnswer([]byte("static data"), nil)
	assert.Error(t, err)
}

func TestOpenAIModel_AcceptsSloppyAnswer(t *testing.T) {
	srv := chatServer(t, "```json\n{\"category\":\"Dynamic_Data\",\"score\":\"91\"}\n```", nil)
	defer srv.Close()

	m := NewOpenAIModel(OpenAIConfig{BaseURL: srv.URL + "/v1", APIKey: "sk-test"}, nil)
	r, err := m.Rank(context.Background(), "daily exchange rates", []string{"static data", "dynamic data"})
	require.NoError(t, err)
	assert.Equal(t, []string{"dynamic data"}, r.Labels)
	assert.InDelta(t, 0.91, r.Scores[0], 1e-9)
}
