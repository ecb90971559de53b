package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OpenAIConfig for the chat-completions classifier.
type OpenAIConfig struct {
	APIKey      string        // if empty, falls back to env OPENAI_API_KEY
	BaseURL     string        // default https://api.openai.com/v1
	Model       string        // e.g., "gpt-4o-mini"
	Temperature float32       // 0..2
	Timeout     time.Duration // http client timeout
}

// OpenAIModel asks a chat model to pick one label and report its confidence.
type OpenAIModel struct {
	cfg    OpenAIConfig
	http   *http.Client
	logger *slog.Logger
}

func NewOpenAIModel(cfg OpenAIConfig, logger *slog.Logger) *OpenAIModel {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIModel{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}, logger: logger}
}

func (m *OpenAIModel) Rank(ctx context.Context, text string, labels []string) (Ranking, error) {
	rid := uuid.New().String()
	start := time.Now()

	schema := BuildLabelJSONSchema(labels)
	body := map[string]any{
		"model":           m.cfg.Model,
		"temperature":     m.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": buildSystemPrompt(labels)},
			{"role": "user", "content": buildUserPrompt(text)},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}
	endpoint := strings.TrimRight(m.cfg.BaseURL, "/") + "/chat/completions"

	raw, err := postJSON(ctx, m.http, endpoint, body, bearer(m.cfg.APIKey), m.logger)
	if err != nil {
		m.logger.Error("classify.openai.http_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return Ranking{}, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return Ranking{}, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return Ranking{}, fmt.Errorf("no choices in openai response")
	}
	content, changes, err := NormalizeLabelAnswer([]byte(cc.Choices[0].Message.Content), m.logger)
	if err != nil {
		m.logger.Error("classify.openai.sanitize_failed", "req_id", rid, "error", err)
		return Ranking{}, err
	}
	if len(changes) > 0 {
		m.logger.Warn("classify.openai.answer_normalized", "req_id", rid, "changes", changes)
	}
	if err := ValidateJSONAgainstSchema(schema, content); err != nil {
		m.logger.Error("classify.openai.schema_validation_failed", "req_id", rid, "error", err, "content", string(content))
		return Ranking{}, fmt.Errorf("schema validation failed: %w", err)
	}

	var out struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal(content, &out); err != nil {
		return Ranking{}, fmt.Errorf("unmarshal label: %w", err)
	}
	m.logger.Debug("classify.openai.ok", "req_id", rid, "label", out.Label,
		"confidence", out.Confidence, "elapsed_ms", time.Since(start).Milliseconds())
	return Ranking{Labels: []string{out.Label}, Scores: []float64{out.Confidence}}, nil
}

func buildSystemPrompt(labels []string) string {
	return strings.Join([]string{
		"You are a zero-shot document classifier. Return ONLY JSON that matches the JSON Schema provided.",
		"Choose exactly one label from: " + strings.Join(labels, ", ") + ".",
		"'static data' is reference material that rarely changes; 'dynamic data' is time-sensitive or frequently updated content.",
		"Set 'confidence' between 0 and 1.",
	}, " ")
}

func buildUserPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Document text (first ~3k chars):\n")
	b.WriteString(clip(text, 3000))
	return b.String()
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
