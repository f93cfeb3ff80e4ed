package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/valter-silva-au/trello-sankey/pkg/models"
)

func TestLoadGlobalConfigFromEnv(t *testing.T) {
	t.Setenv("TRELLO_API_KEY", "key-from-env")
	t.Setenv("TRELLO_TOKEN", "token-from-env")

	cm := NewConfigurationManager(t.TempDir())
	cfg, err := cm.LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig failed: %v", err)
	}

	if cfg.APIKey != "key-from-env" {
		t.Errorf("APIKey = %q, want key-from-env", cfg.APIKey)
	}
	if cfg.Token != "token-from-env" {
		t.Errorf("Token = %q, want token-from-env", cfg.Token)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default %q", cfg.BaseURL, DefaultBaseURL)
	}
}

func TestLoadGlobalConfigFromFile(t *testing.T) {
	t.Setenv("TRELLO_API_KEY", "")
	t.Setenv("TRELLO_TOKEN", "")
	t.Setenv("TRELLO_BASE_URL", "")

	dir := t.TempDir()
	content := "api_key: key-from-file\ntoken: token-from-file\nbase_url: https://example.test/1\n"
	if err := os.WriteFile(filepath.Join(dir, ".trellosankey.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cm := NewConfigurationManager(dir)
	cfg, err := cm.LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig failed: %v", err)
	}

	if cfg.APIKey != "key-from-file" {
		t.Errorf("APIKey = %q, want key-from-file", cfg.APIKey)
	}
	if cfg.BaseURL != "https://example.test/1" {
		t.Errorf("BaseURL = %q, want file value", cfg.BaseURL)
	}
}

func TestLoadGlobalConfigEnvOverridesFile(t *testing.T) {
	t.Setenv("TRELLO_API_KEY", "env-key")
	t.Setenv("TRELLO_TOKEN", "env-token")

	dir := t.TempDir()
	content := "api_key: file-key\ntoken: file-token\n"
	if err := os.WriteFile(filepath.Join(dir, ".trellosankey.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := NewConfigurationManager(dir).LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig failed: %v", err)
	}

	if cfg.APIKey != "env-key" || cfg.Token != "env-token" {
		t.Errorf("environment did not take precedence: %+v", cfg)
	}
}

func TestLoadGlobalConfigMissingCredentials(t *testing.T) {
	t.Setenv("TRELLO_API_KEY", "")
	t.Setenv("TRELLO_TOKEN", "")

	_, err := NewConfigurationManager(t.TempDir()).LoadGlobalConfig()
	if !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("err = %v, want ErrMissingCredentials", err)
	}
}

func TestLoadStageConfigDefaults(t *testing.T) {
	cfg, err := NewConfigurationManager(t.TempDir()).LoadStageConfig()
	if err != nil {
		t.Fatalf("LoadStageConfig failed: %v", err)
	}

	want := models.DefaultStageConfig()
	if len(cfg.PipelineStages) != len(want.PipelineStages) {
		t.Errorf("pipeline stages = %v, want defaults", cfg.PipelineStages)
	}
	if cfg.FirstStage() != "Applications" {
		t.Errorf("FirstStage = %q, want Applications", cfg.FirstStage())
	}
	if !cfg.IsTerminal("Rejected by me") {
		t.Error("Rejected by me should be terminal by default")
	}
}

func TestLoadStageConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `pipeline_stages:
  - Inbox
  - Review
terminal_stages:
  - Done
rules:
  - keywords: [inbox]
    stage: Inbox
  - keywords: [review]
    stage: Review
  - keywords: [done]
    stage: Done
`
	if err := os.WriteFile(filepath.Join(dir, "stages.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing stages.yaml: %v", err)
	}

	cfg, err := NewConfigurationManager(dir).LoadStageConfig()
	if err != nil {
		t.Fatalf("LoadStageConfig failed: %v", err)
	}

	if cfg.FirstStage() != "Inbox" {
		t.Errorf("FirstStage = %q, want Inbox", cfg.FirstStage())
	}
	if !cfg.IsTerminal("Done") {
		t.Error("Done should be terminal")
	}
	if len(cfg.Rules) != 3 {
		t.Errorf("rules = %v, want 3 overridden rules", cfg.Rules)
	}
	// Sections the file does not set keep their defaults.
	if cfg.FallbackRank != models.DefaultStageConfig().FallbackRank {
		t.Errorf("FallbackRank = %d, want default", cfg.FallbackRank)
	}
}

func TestLoadStageConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stages.yaml"), []byte("pipeline_stages: {not: a list}\n"), 0o644); err != nil {
		t.Fatalf("writing stages.yaml: %v", err)
	}

	if _, err := NewConfigurationManager(dir).LoadStageConfig(); err == nil {
		t.Error("expected error for malformed stages.yaml")
	}
}
