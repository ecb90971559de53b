package classify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroShotModel_ObjectResponse(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		_, _ = w.Write([]byte(`{"sequence":"x","labels":["static data","dynamic data"],"scores":[0.7,0.3]}`))
	}))
	defer srv.Close()

	m := NewZeroShotModel(ZeroShotConfig{BaseURL: srv.URL + "/models/", Model: "org/nli", APIKey: "tok"}, nil)
	r, err := m.Rank(context.Background(), "hello", []string{"static data", "dynamic data"})
	require.NoError(t, err)

	assert.Equal(t, []string{"static data", "dynamic data"}, r.Labels)
	assert.Equal(t, []float64{0.7, 0.3}, r.Scores)
	assert.Equal(t, "/models/org/nli", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "hello", gotBody["inputs"])
	params := gotBody["parameters"].(map[string]any)
	assert.Equal(t, false, params["multi_label"])
	assert.Equal(t, []any{"static data", "dynamic data"}, params["candidate_labels"])
}

func TestZeroShotModel_ListResponseIsSorted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(` [{"label":"static data","score":0.2},{"label":"dynamic data","score":0.8}]`))
	}))
	defer srv.Close()

	r, err := NewZeroShotModel(ZeroShotConfig{BaseURL: srv.URL}, nil).Rank(context.Background(), "t", []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"dynamic data", "static data"}, r.Labels)
	assert.Equal(t, []float64{0.8, 0.2}, r.Scores)
}

func TestZeroShotModel_ObjectResponseIsSorted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"labels":["static data","dynamic data"],"scores":[0.35,0.65]}`))
	}))
	defer srv.Close()

	r, err := NewZeroShotModel(ZeroShotConfig{BaseURL: srv.URL}, nil).Rank(context.Background(), "t", []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"dynamic data", "static data"}, r.Labels)
	assert.Equal(t, []float64{0.65, 0.35}, r.Scores)
}

func TestZeroShotModel_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`rate limited`))
	}))
	defer srv.Close()

	_, err := NewZeroShotModel(ZeroShotConfig{BaseURL: srv.URL}, nil).Rank(context.Background(), "t", []string{"a"})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
	assert.Equal(t, "rate limited", se.Body)
}

func TestZeroShotModel_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"non-2xx", http.StatusServiceUnavailable, `{"error":"Model is currently loading"}`, "503"},
		{"schema mismatch", http.StatusOK, `{"labels":["a"],"scores":[1.7]}`, "schema"},
		{"missing scores", http.StatusOK, `{"labels":["a"]}`, "schema"},
		{"length mismatch", http.StatusOK, `{"labels":["a","b"],"scores":[0.5]}`, "2 labels but 1 scores"},
		{"not json", http.StatusOK, `<html>`, "unmarshal"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewZeroShotModel(ZeroShotConfig{BaseURL: srv.URL}, nil).Rank(context.Background(), "t", []string{"a"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestClip(t *testing.T) {
	assert.Equal(t, "héll", clip("héllo", 4))
	assert.Equal(t, "abc", clip("abc", 10))
	assert.Len(t, []rune(clip(strings.Repeat("ड", 5000), 4000)), 4000)
}
