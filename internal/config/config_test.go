package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			shouldSet: true,
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			shouldSet: false,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{
			name:     "true value",
			key:      "TEST_BOOL",
			value:    "true",
			def:      false,
			expected: true,
		},
		{
			name:     "false value",
			key:      "TEST_BOOL_FALSE",
			value:    "false",
			def:      true,
			expected: false,
		},
		{
			name:     "invalid value uses default",
			key:      "TEST_BOOL_INVALID",
			value:    "invalid",
			def:      true,
			expected: true,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_BOOL_MISSING",
			value:    "",
			def:      false,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single", input: "aqua.lan", expected: []string{"aqua.lan"}},
		{name: "spaces and quotes", input: ` "10.0.0.0/8", '192.168.1.5' ,`, expected: []string{"10.0.0.0/8", "192.168.1.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim() = %v, want %v", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestNormalizePort(t *testing.T) {
	for input, want := range map[string]string{"8080": ":8080", ":9000": ":9000", "127.0.0.1:80": "127.0.0.1:80"} {
		if got := normalizePort(input); got != want {
			t.Errorf("normalizePort(%q) = %q, want %q", input, got, want)
		}
	}
}

// isolate points Load at a missing .env so the developer's file is ignored.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("AQUA_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, key := range []string{"AQUA_STORAGE", "AQUA_GEMINI_API_KEY", "GEMINI_API_KEY", "AQUA_CORRUPT_STATE", "AQUA_LOG_LEVEL", "AQUA_GEMINI_TIMEOUT", "AQUA_REQUEST_TIMEOUT"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg := Load()
	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q", cfg.ListenPort)
	}
	if cfg.Storage != StorageSQLite || cfg.StorageKey != "aquariums" || cfg.CorruptState != "empty" {
		t.Errorf("persistence defaults = %q/%q/%q", cfg.Storage, cfg.StorageKey, cfg.CorruptState)
	}
	if cfg.SuggestionProvider != "local" || cfg.GeminiAPIKey != "" {
		t.Errorf("suggestion defaults = %q, key set = %v", cfg.SuggestionProvider, cfg.GeminiAPIKey != "")
	}
	if cfg.RequestTimeout <= cfg.GeminiTimeout {
		t.Errorf("RequestTimeout %v must exceed GeminiTimeout %v", cfg.RequestTimeout, cfg.GeminiTimeout)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want unset for sqlite storage", cfg.RedisAddr)
	}
}

func TestLoadRequestTimeoutFollowsGemini(t *testing.T) {
	isolate(t)
	t.Setenv("AQUA_GEMINI_TIMEOUT", "45s")
	t.Setenv("AQUA_REQUEST_TIMEOUT", "10s")

	cfg := Load()
	if cfg.RequestTimeout != 50*time.Second {
		t.Errorf("RequestTimeout = %v, want 50s", cfg.RequestTimeout)
	}
}

func TestLoadGeminiKeyFallback(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "from-sdk-var")

	if cfg := Load(); cfg.GeminiAPIKey != "from-sdk-var" {
		t.Errorf("GeminiAPIKey = %q", cfg.GeminiAPIKey)
	}

	t.Setenv("AQUA_GEMINI_API_KEY", "explicit")
	if cfg := Load(); cfg.GeminiAPIKey != "explicit" {
		t.Errorf("GeminiAPIKey = %q, want explicit", cfg.GeminiAPIKey)
	}
}

func TestLoadRedisRequiresAddr(t *testing.T) {
	isolate(t)
	t.Setenv("AQUA_STORAGE", "redis")
	t.Setenv("AQUA_REDIS_ADDR", "")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic without AQUA_REDIS_ADDR")
		}
	}()
	Load()
}

func TestLoadRedis(t *testing.T) {
	isolate(t)
	t.Setenv("AQUA_STORAGE", "REDIS")
	t.Setenv("AQUA_REDIS_ADDR", "redis:6379")
	t.Setenv("AQUA_REDIS_DB", "2")

	cfg := Load()
	if cfg.Storage != StorageRedis || cfg.RedisAddr != "redis:6379" || cfg.RedisDB != 2 {
		t.Errorf("redis config = %q %q %d", cfg.Storage, cfg.RedisAddr, cfg.RedisDB)
	}
	if cfg.RedisConnectTimeout != 30*time.Second {
		t.Errorf("RedisConnectTimeout = %v", cfg.RedisConnectTimeout)
	}
}

func TestLoadInvalidValuesPanic(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown storage", key: "AQUA_STORAGE", value: "postgres"},
		{name: "unknown corrupt policy", key: "AQUA_CORRUPT_STATE", value: "repair"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)

			defer func() {
				if r := recover(); r == nil {
					t.Errorf("Load() should panic for %s=%s", tt.key, tt.value)
				}
			}()
			Load()
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	// godotenv never overrides a variable that exists, even empty
	for _, key := range []string{"AQUA_SEED_FILE", "AQUA_LISTEN_PORT"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}

	path := filepath.Join(t.TempDir(), "test.env")
	content := "AQUA_SEED_FILE=/data/seed.yaml\nAQUA_LISTEN_PORT=9090\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AQUA_ENV_FILE", path)

	cfg := Load()
	if cfg.SeedFile != "/data/seed.yaml" || cfg.ListenPort != ":9090" {
		t.Errorf("dotenv not applied: seed=%q port=%q", cfg.SeedFile, cfg.ListenPort)
	}
}

func TestRedacted(t *testing.T) {
	cfg := Config{GeminiAPIKey: "secret", RedisPassword: "pw"}
	r := cfg.Redacted()
	if r.GeminiAPIKey == "secret" || r.RedisPassword == "pw" {
		t.Errorf("Redacted() leaked secrets: %+v", r)
	}
	if cfg.GeminiAPIKey != "secret" {
		t.Error("Redacted() modified the original")
	}
}
