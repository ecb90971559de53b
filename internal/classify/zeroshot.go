package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"
)

// ZeroShotConfig configures a hosted zero-shot (NLI) classification endpoint.
type ZeroShotConfig struct {
	BaseURL  string        // default https://api-inference.huggingface.co/models
	Model    string        // default microsoft/mdeberta-v3-base
	APIKey   string        // sent as a bearer token when set
	Timeout  time.Duration // http client timeout
	MaxChars int           // input is cut to this many runes, default 4000
}

// ZeroShotModel calls an inference endpoint that accepts candidate labels
// and returns them ranked.
type ZeroShotModel struct {
	cfg    ZeroShotConfig
	http   *http.Client
	logger *slog.Logger
}

func NewZeroShotModel(cfg ZeroShotConfig, logger *slog.Logger) *ZeroShotModel {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api-inference.huggingface.co/models"
	}
	if cfg.Model == "" {
		cfg.Model = "microsoft/mdeberta-v3-base"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = 4000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ZeroShotModel{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}, logger: logger}
}

func (m *ZeroShotModel) Rank(ctx context.Context, text string, labels []string) (Ranking, error) {
	body := map[string]any{
		"inputs": clip(text, m.cfg.MaxChars),
		"parameters": map[string]any{
			"candidate_labels": labels,
			"multi_label":      false,
		},
	}
	url := strings.TrimRight(m.cfg.BaseURL, "/") + "/" + m.cfg.Model

	raw, err := postJSON(ctx, m.http, url, body, bearer(m.cfg.APIKey), m.logger)
	if err != nil {
		return Ranking{}, fmt.Errorf("zero-shot %s: %w", m.cfg.Model, err)
	}
	return decodeZeroShot(raw)
}

type scoredLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// decodeZeroShot accepts both the object form and the list-of-pairs form and
// returns the labels ordered by descending score.
func decodeZeroShot(raw []byte) (Ranking, error) {
	trimmed := bytes.TrimSpace(raw)
	var pairs []scoredLabel

	if bytes.HasPrefix(trimmed, []byte("[")) {
		if err := ValidateJSONAgainstSchema(zeroShotListSchema(), trimmed); err != nil {
			return Ranking{}, err
		}
		if err := json.Unmarshal(trimmed, &pairs); err != nil {
			return Ranking{}, fmt.Errorf("decode zero-shot response: %w", err)
		}
	} else {
		if err := ValidateJSONAgainstSchema(zeroShotObjectSchema(), trimmed); err != nil {
			return Ranking{}, err
		}
		var obj struct {
			Labels []string  `json:"labels"`
			Scores []float64 `json:"scores"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return Ranking{}, fmt.Errorf("decode zero-shot response: %w", err)
		}
		if len(obj.Labels) != len(obj.Scores) {
			return Ranking{}, fmt.Errorf("zero-shot response has %d labels but %d scores", len(obj.Labels), len(obj.Scores))
		}
		for i := range obj.Labels {
			pairs = append(pairs, scoredLabel{Label: obj.Labels[i], Score: obj.Scores[i]})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Score > pairs[j].Score })
	var r Ranking
	for _, p := range pairs {
		r.Labels = append(r.Labels, p.Label)
		r.Scores = append(r.Scores, p.Score)
	}
	return r, nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
