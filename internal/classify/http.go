package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docsort/internal/common"
	"github.com/joseph-ayodele/docsort/internal/runner"
)

// maxResponseBytes bounds what an inference endpoint may send back.
const maxResponseBytes = 4 << 20

// StatusError is a non-2xx answer from a model endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("model endpoint returned %d: %s", e.Code, runner.Truncate(e.Body, 300))
}

// postJSON posts payload to url and returns the response body. Every request
// carries a request id, and the document being classified when ctx has one.
func postJSON(ctx context.Context, client *http.Client, url string, payload any, header http.Header, logger *slog.Logger) ([]byte, error) {
	log := logger.With(common.LogAttrs(ctx)...).With("req_id", uuid.NewString())
	start := time.Now()

	bs, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Debug("model request", "url", url, "bytes", len(bs))
	resp, err := client.Do(req)
	if err != nil {
		log.Error("model request failed", "url", url, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	log.Debug("model response", "status", resp.StatusCode, "bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

func bearer(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
