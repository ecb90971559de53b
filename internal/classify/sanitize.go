package classify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// NormalizeLabelAnswer tidies a chat model's answer so it can pass the strict
// label schema:
//   - strips markdown code fences
//   - renames known synonyms (category -> label, score -> confidence)
//   - lower-cases the label and turns '_' or '-' into spaces
//   - coerces a string or percentage confidence into 0..1
//   - removes unknown keys
//
// It returns the rewritten JSON and the list of changes made.
func NormalizeLabelAnswer(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(stripFences(raw), &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	changed := make([]string, 0, 4)
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			changed = append(changed, from+"->"+to)
		}
	}
	renamed("category", "label")
	renamed("class", "label")
	renamed("score", "confidence")
	renamed("probability", "confidence")

	if v, ok := m["label"].(string); ok {
		norm := strings.ToLower(strings.TrimSpace(v))
		norm = strings.NewReplacer("_", " ", "-", " ").Replace(norm)
		if norm != v {
			m["label"] = norm
			changed = append(changed, "label")
		}
	}

	switch t := m["confidence"].(type) {
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(t), "%")
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			m["confidence"] = percent(f)
			changed = append(changed, "confidence")
		}
	case float64:
		if p := percent(t); p != t {
			m["confidence"] = p
			changed = append(changed, "confidence")
		}
	}

	for k := range m {
		if k != "label" && k != "confidence" {
			delete(m, k)
			changed = append(changed, "-"+k)
		}
	}

	if len(changed) > 0 {
		logger.Debug("classify.answer.sanitized", "changes", changed)
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, nil, fmt.Errorf("sanitize: encode: %w", err)
	}
	return b, changed, nil
}

// percent maps 1 < f <= 100 onto 0..1.
func percent(f float64) float64 {
	if f > 1 && f <= 100 {
		return f / 100
	}
	return f
}

func stripFences(b []byte) []byte {
	s := strings.TrimSpace(string(b))
	if !strings.HasPrefix(s, "```") {
		return []byte(s)
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return []byte(strings.TrimSpace(s))
}
