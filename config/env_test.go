package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFiles_Precedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"app_addr":"127.0.0.1:4000","log_level":"debug","rate_limit":7}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("# comment\nAPP_ADDR=\"127.0.0.1:5000\"\nRATE_WINDOW=30s\n"), 0o644))

	require.NoError(t, loadFromFiles(jsonPath, envPath))
	t.Cleanup(func() {
		mu.Lock()
		values = defaultValues()
		mu.Unlock()
	})

	assert.Equal(t, "127.0.0.1:5000", get("APP_ADDR", ""), ".env overrides app.json")
	assert.Equal(t, "debug", get("LOG_LEVEL", ""))
	assert.Equal(t, "0", get("RATE_LIMIT", ""), "non-string JSON values are ignored")
	assert.Equal(t, 30*time.Second, duration("RATE_WINDOW", time.Minute))

	t.Setenv("APP_ADDR", "127.0.0.1:6000")
	assert.Equal(t, "127.0.0.1:6000", get("APP_ADDR", ""), "process env wins")
}

func TestLoadFromFiles_MissingFilesAreFine(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, "nope.env")))
	t.Cleanup(func() {
		mu.Lock()
		values = defaultValues()
		mu.Unlock()
	})

	assert.Equal(t, defaultAppAddr, get("APP_ADDR", ""))
}

func TestLoadFromFiles_BadJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{not json`), 0o644))

	err := loadFromFiles(jsonPath, filepath.Join(dir, ".env"))
	assert.ErrorContains(t, err, "decode")
}

func TestAccessors_Defaults(t *testing.T) {
	assert.Equal(t, "127.0.0.1:3030", defaultAppAddr)
	assert.Equal(t, []string{"*"}, CORSOrigins())
	assert.Equal(t, 5*time.Second, ShutdownTimeout())

	t.Setenv("RATE_LIMIT", "-3")
	assert.Equal(t, 0, RateLimit())
	t.Setenv("RATE_LIMIT", "12")
	assert.Equal(t, 12, RateLimit())
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, CORSOrigins())
}

func TestTaskLocalsNote_EmptyUnlessSet(t *testing.T) {
	t.Setenv("TASKLOCALS_NOTE", "")
	assert.Equal(t, "", TaskLocalsNote())

	t.Setenv("TASKLOCALS_NOTE", "custom note")
	assert.Equal(t, "custom note", TaskLocalsNote())
}
