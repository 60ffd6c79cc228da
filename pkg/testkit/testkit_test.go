package testkit_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/reqscope/pkg/testkit"
)

var testHandler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path != "/health" {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`)) //nolint:errcheck
		return
	}
	w.Header().Set("X-Trace", "abc")
	w.Write([]byte(`{"status":"ok","version":3,"checks":{"uptime":"12s"}}`)) //nolint:errcheck
})

func TestRunDir(t *testing.T) {
	testkit.RunDir(t, testHandler, "testdata")
}

func TestRun_Single(t *testing.T) {
	testkit.Run(t, testHandler, "testdata/missing.json")
}

func TestLoadScenario(t *testing.T) {
	s, err := testkit.LoadScenario("testdata/health.json")
	require.NoError(t, err)

	assert.Equal(t, "health check", s.Name)
	assert.Equal(t, http.MethodGet, s.RequestMethod, "method defaults to GET")
	assert.Equal(t, 200, s.ExpectedCode)

	abs, err := filepath.Abs("testdata/health_res.json")
	require.NoError(t, err)
	assert.Equal(t, abs, s.ResponseBodyPath())
}

func TestLoadScenario_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"x","requestUrl":"/"}`), 0o600))

	_, err := testkit.LoadScenario(path)
	assert.ErrorContains(t, err, "expectedCode is required")
}

func TestDiffJSON(t *testing.T) {
	tests := []struct {
		name     string
		expected any
		actual   any
		diffs    int
	}{
		{"subset object", map[string]any{"a": 1.0}, map[string]any{"a": 1.0, "b": 2.0}, 0},
		{"missing key", map[string]any{"a": 1.0}, map[string]any{"b": 1.0}, 1},
		{"wildcard", map[string]any{"id": "*"}, map[string]any{"id": "internal-x"}, 0},
		{"wildcard needs value", map[string]any{"id": "*"}, map[string]any{"id": nil}, 1},
		{"string mismatch", "a", "b", 1},
		{"array length", []any{1.0}, []any{1.0, 2.0}, 1},
		{"type mismatch", map[string]any{}, []any{}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, testkit.DiffJSON("", tt.expected, tt.actual), tt.diffs)
		})
	}
}
