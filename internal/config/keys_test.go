package config

import (
	"testing"
)

func TestGetAPIKey(t *testing.T) {
	t.Run("environment variable wins", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant-api03-from-env")

		key, err := GetAPIKey(&Config{Anthropic: AnthropicConfig{APIKey: "sk-ant-api03-from-file"}})
		if err != nil {
			t.Fatalf("GetAPIKey failed: %v", err)
		}
		if key != "sk-ant-api03-from-env" {
			t.Errorf("key = %q, want the env value", key)
		}
	})

	t.Run("config file fallback", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "")

		key, err := GetAPIKey(&Config{Anthropic: AnthropicConfig{APIKey: "sk-ant-api03-from-file"}})
		if err != nil {
			t.Fatalf("GetAPIKey failed: %v", err)
		}
		if key != "sk-ant-api03-from-file" {
			t.Errorf("key = %q, want the config value", key)
		}
	})

	t.Run("unresolved env reference in config", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "")

		_, err := GetAPIKey(&Config{Anthropic: AnthropicConfig{APIKey: "${ANTHROPIC_API_KEY}"}})
		if err != ErrNoAPIKey {
			t.Errorf("err = %v, want ErrNoAPIKey for an unresolved reference", err)
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "")

		if _, err := GetAPIKey(&Config{}); err != ErrNoAPIKey {
			t.Errorf("err = %v, want ErrNoAPIKey", err)
		}
	})
}

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"well formed", "sk-ant-REDACTED", false},
		{"blank", "", true},
		{"foreign prefix", "sk-live-0123456789abcdefghij", true},
		{"truncated", "sk-ant-012", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAPIKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAPIKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"long key keeps prefix and tail", "sk-ant-REDACTED", "sk-ant-...efgh"},
		{"unset", "", "(not set)"},
		{"too short to mask meaningfully", "sk-ant-012", "***"},
		{"boundary length fully hidden", "123456789012345", "***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskAPIKey(tt.key); got != tt.want {
				t.Errorf("MaskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestGetAPIKeySource(t *testing.T) {
	t.Run("environment", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant-api03-from-env")

		if got := GetAPIKeySource(&Config{}); got != KeySourceEnv {
			t.Errorf("source = %v, want %v", got, KeySourceEnv)
		}
	})

	t.Run("config file", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "")

		cfg := &Config{Anthropic: AnthropicConfig{APIKey: "sk-ant-api03-from-file"}}
		if got := GetAPIKeySource(cfg); got != KeySourceConfig {
			t.Errorf("source = %v, want %v", got, KeySourceConfig)
		}
	})

	t.Run("none", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "")

		if got := GetAPIKeySource(&Config{}); got != KeySourceNone {
			t.Errorf("source = %v, want %v", got, KeySourceNone)
		}
	})
}
