// Package config loads service settings from defaults, config/app.json, a
// .env file and the process environment, in that order of precedence
// (later sources win).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppEnv          = "local"
	defaultAppAddr         = "127.0.0.1:3030"
	defaultLogLevel        = "info"
	defaultMetricsPath     = "/metrics"
	defaultRateLimit       = "0"
	defaultRateWindow      = "1m"
	defaultShutdownTimeout = "5s"
	defaultCORSOrigins     = "*"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json and .env once. Missing files are not an error.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":          defaultAppEnv,
		"APP_ADDR":         defaultAppAddr,
		"LOG_LEVEL":        defaultLogLevel,
		"METRICS_PATH":     defaultMetricsPath,
		"RATE_LIMIT":       defaultRateLimit,
		"RATE_WINDOW":      defaultRateWindow,
		"SHUTDOWN_TIMEOUT": defaultShutdownTimeout,
		"CORS_ORIGINS":     defaultCORSOrigins,
	}
}

// AppEnv returns the deployment environment ("local", "production", ...).
func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// AppAddr returns the listen address. The service binds loopback by default.
func AppAddr() string {
	_ = Load()
	return get("APP_ADDR", defaultAppAddr)
}

// LogLevel returns the configured slog level name.
func LogLevel() string {
	_ = Load()
	return strings.ToLower(get("LOG_LEVEL", defaultLogLevel))
}

// MetricsPath returns the path the Prometheus handler is served on.
func MetricsPath() string {
	_ = Load()
	return get("METRICS_PATH", defaultMetricsPath)
}

// RateLimit returns the per-client request budget per RateWindow. Zero disables limiting.
func RateLimit() int {
	_ = Load()
	n, err := strconv.Atoi(get("RATE_LIMIT", defaultRateLimit))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func RateWindow() time.Duration {
	_ = Load()
	return duration("RATE_WINDOW", time.Minute)
}

func ShutdownTimeout() time.Duration {
	_ = Load()
	return duration("SHUTDOWN_TIMEOUT", 5*time.Second)
}

// CORSOrigins returns the comma separated allow-list as a slice.
func CORSOrigins() []string {
	_ = Load()
	var out []string
	for _, o := range strings.Split(get("CORS_ORIGINS", defaultCORSOrigins), ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// TaskLocalsNote overrides the static note embedded next to the request ID in
// rewritten bodies. Empty means the pipeline default.
func TaskLocalsNote() string {
	_ = Load()
	return get("TASKLOCALS_NOTE", "")
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	env, err := godotenv.Read(path)
	if err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return statErr
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	for key, value := range env {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(value)
	}

	return nil
}

// get resolves key from the process environment first, then the loaded files.
func get(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}

	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

func duration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(get(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
