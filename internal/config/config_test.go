package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Validation.StaleAfter != 7*24*time.Hour {
		t.Errorf("expected default stale_after 168h, got %v", cfg.Validation.StaleAfter)
	}

	if cfg.Validation.DriftWindow != 24*time.Hour {
		t.Errorf("expected default drift_window 24h, got %v", cfg.Validation.DriftWindow)
	}

	if cfg.Validation.ExcerptMatchThreshold != 0.8 {
		t.Errorf("expected default excerpt_match_threshold 0.8, got %v", cfg.Validation.ExcerptMatchThreshold)
	}

	if cfg.Validation.MaxDocumentChars != 3000 {
		t.Errorf("expected default max_document_chars 3000, got %d", cfg.Validation.MaxDocumentChars)
	}

	if cfg.Validation.MaxTokens != 1024 {
		t.Errorf("expected default max_tokens 1024, got %d", cfg.Validation.MaxTokens)
	}

	if cfg.TUI.RefreshRate != 250*time.Millisecond {
		t.Errorf("expected refresh rate 250ms, got %v", cfg.TUI.RefreshRate)
	}

	if cfg.Anthropic.UseAWSBedrock {
		t.Error("expected bedrock to be off by default")
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
anthropic:
  api_key: test-key
  model: claude-sonnet-4-20250514
validation:
  stale_after: 72h
  drift_window: 12h
  excerpt_match_threshold: 0.9
  max_document_chars: 5000
scoring:
  type_weights:
    database: 1.5
    cache: 0.5
tui:
  refresh_rate: 100ms
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %q", cfg.Anthropic.APIKey)
	}

	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("unexpected model %q", cfg.Anthropic.Model)
	}

	if cfg.Validation.StaleAfter != 72*time.Hour {
		t.Errorf("expected stale_after 72h, got %v", cfg.Validation.StaleAfter)
	}

	if cfg.Validation.DriftWindow != 12*time.Hour {
		t.Errorf("expected drift_window 12h, got %v", cfg.Validation.DriftWindow)
	}

	if cfg.Validation.ExcerptMatchThreshold != 0.9 {
		t.Errorf("expected excerpt_match_threshold 0.9, got %v", cfg.Validation.ExcerptMatchThreshold)
	}

	if cfg.Validation.MaxDocumentChars != 5000 {
		t.Errorf("expected max_document_chars 5000, got %d", cfg.Validation.MaxDocumentChars)
	}

	// Unset values keep their defaults.
	if cfg.Validation.MaxTokens != 1024 {
		t.Errorf("expected default max_tokens 1024, got %d", cfg.Validation.MaxTokens)
	}

	if cfg.Scoring.TypeWeights["database"] != 1.5 {
		t.Errorf("expected type weight database=1.5, got %v", cfg.Scoring.TypeWeights["database"])
	}

	if cfg.Scoring.TypeWeights["cache"] != 0.5 {
		t.Errorf("expected type weight cache=0.5, got %v", cfg.Scoring.TypeWeights["cache"])
	}

	if cfg.TUI.RefreshRate != 100*time.Millisecond {
		t.Errorf("expected refresh rate 100ms, got %v", cfg.TUI.RefreshRate)
	}
}

func TestExpandEnv(t *testing.T) {
	os.Setenv("TEST_VAR", "expanded-value")
	defer os.Unsetenv("TEST_VAR")

	result := expandEnv("${TEST_VAR}")
	if result != "expanded-value" {
		t.Errorf("expected 'expanded-value', got %q", result)
	}

	result = expandEnv("prefix-${TEST_VAR}-suffix")
	if result != "prefix-expanded-value-suffix" {
		t.Errorf("expected 'prefix-expanded-value-suffix', got %q", result)
	}
}

func TestGetUserConfigDir(t *testing.T) {
	os.Setenv("XDG_CONFIG_HOME", "/custom/config")
	defer os.Unsetenv("XDG_CONFIG_HOME")

	dir := getUserConfigDir()
	expected := "/custom/config/attest"
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}
