package classify

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsort/internal/common"
)

func TestPostJSON_LogsDocumentContext(t *testing.T) {
	var gotAuth, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := common.WithSource(common.WithRunID(context.Background(), "run-42"), "/in/scan_01.pdf")

	raw, err := postJSON(ctx, srv.Client(), srv.URL, map[string]any{"inputs": "x"}, bearer(""), logger)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
	assert.Empty(t, gotAuth)
	assert.Equal(t, "application/json", gotType)

	assert.Contains(t, logs.String(), "run_id=run-42")
	assert.Contains(t, logs.String(), "file=scan_01.pdf")
	assert.Contains(t, logs.String(), "req_id=")
}
