package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/valter-silva-au/trello-sankey/internal/cli"
	"github.com/valter-silva-au/trello-sankey/internal/core"
)

func TestNewAppWithCredentials(t *testing.T) {
	t.Setenv("TRELLO_API_KEY", "key")
	t.Setenv("TRELLO_TOKEN", "token")
	cli.CredErr = nil

	app, err := NewApp(t.TempDir())
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer func() { _ = app.Close() }()

	if app.Client == nil {
		t.Error("Client should be wired when credentials are present")
	}
	if app.Generator == nil {
		t.Error("Generator should be wired when credentials are present")
	}
	if app.EventLog == nil {
		t.Error("EventLog should be open")
	}
	if app.MetricsCalc == nil {
		t.Error("MetricsCalc should be wired")
	}
	if cli.CredErr != nil {
		t.Errorf("CredErr should stay nil, got %v", cli.CredErr)
	}
	if cli.Generator == nil || cli.Client == nil {
		t.Error("CLI package variables should be wired")
	}
}

func TestNewAppMissingCredentials(t *testing.T) {
	t.Setenv("TRELLO_API_KEY", "")
	t.Setenv("TRELLO_TOKEN", "")
	cli.CredErr = nil

	app, err := NewApp(t.TempDir())
	if err != nil {
		t.Fatalf("NewApp should not fail on missing credentials: %v", err)
	}
	defer func() { _ = app.Close() }()

	if app.Generator != nil {
		t.Error("Generator should stay nil without credentials")
	}
	if !errors.Is(cli.CredErr, core.ErrMissingCredentials) {
		t.Errorf("CredErr = %v, want ErrMissingCredentials", cli.CredErr)
	}
	if app.EventLog == nil {
		t.Error("EventLog should still be open without credentials")
	}
}

func TestNewAppCreatesEventLog(t *testing.T) {
	t.Setenv("TRELLO_API_KEY", "key")
	t.Setenv("TRELLO_TOKEN", "token")

	dir := t.TempDir()
	app, err := NewApp(dir)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer func() { _ = app.Close() }()

	if _, err := os.Stat(filepath.Join(dir, ".tsg_events.jsonl")); err != nil {
		t.Errorf("event log file not created: %v", err)
	}
}

func TestNewAppLoadsStageOverrides(t *testing.T) {
	t.Setenv("TRELLO_API_KEY", "key")
	t.Setenv("TRELLO_TOKEN", "token")

	dir := t.TempDir()
	content := "pipeline_stages:\n  - Inbox\n  - Review\n"
	if err := os.WriteFile(filepath.Join(dir, "stages.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing stages.yaml: %v", err)
	}

	app, err := NewApp(dir)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer func() { _ = app.Close() }()

	if app.Stages.FirstStage() != "Inbox" {
		t.Errorf("FirstStage = %q, want Inbox", app.Stages.FirstStage())
	}
}

func TestNewAppBadStageConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stages.yaml"), []byte("pipeline_stages: {bad: map}\n"), 0o644); err != nil {
		t.Fatalf("writing stages.yaml: %v", err)
	}

	if _, err := NewApp(dir); err == nil {
		t.Error("expected error for malformed stages.yaml")
	}
}

func TestResolveBasePathFromEnv(t *testing.T) {
	t.Setenv("TSG_HOME", "/srv/tsg")

	if got := ResolveBasePath(); got != "/srv/tsg" {
		t.Errorf("ResolveBasePath() = %q, want /srv/tsg", got)
	}
}

func TestResolveBasePathFromCwdConfig(t *testing.T) {
	t.Setenv("TSG_HOME", "")

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".trellosankey.yaml"), []byte("api_key: x\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Chdir(dir)

	got := ResolveBasePath()
	// t.TempDir may sit behind a symlink; compare resolved paths.
	want, _ := filepath.EvalSymlinks(dir)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != want {
		t.Errorf("ResolveBasePath() = %q, want %q", got, dir)
	}
}
