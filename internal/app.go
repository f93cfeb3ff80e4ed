// Package internal provides the App struct that wires all components of
// trello-sankey together and initializes the CLI layer.
package internal

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/valter-silva-au/trello-sankey/internal/cli"
	"github.com/valter-silva-au/trello-sankey/internal/core"
	"github.com/valter-silva-au/trello-sankey/internal/integration"
	"github.com/valter-silva-au/trello-sankey/internal/observability"
	"github.com/valter-silva-au/trello-sankey/pkg/models"
)

// App holds all service dependencies for trello-sankey.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Stages    models.StageConfig

	// Integration
	Client integration.TrelloClient

	// Core services
	Generator core.SankeyGenerator

	// Observability
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components. A missing credential
// configuration is not fatal here: credential-dependent services stay nil
// and the CLI reports the problem when a command actually needs them.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)

	stages, err := app.ConfigMgr.LoadStageConfig()
	if err != nil {
		return nil, err
	}
	app.Stages = stages

	// --- Observability ---
	eventLogPath := filepath.Join(basePath, ".tsg_events.jsonl")
	app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
	if err != nil {
		// Non-fatal: disable observability if the log can't be created.
		app.EventLog = nil
	}
	if app.EventLog != nil {
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}

	// --- Integration + core services ---
	globalCfg, err := app.ConfigMgr.LoadGlobalConfig()
	switch {
	case err == nil:
		app.Client = integration.NewTrelloClient(*globalCfg)
		var events core.EventLogger
		if app.EventLog != nil {
			events = &eventLogAdapter{log: app.EventLog}
		}
		app.Generator = core.NewSankeyGenerator(app.Client, app.Stages, events)
	case errors.Is(err, core.ErrMissingCredentials):
		cli.CredErr = err
	default:
		return nil, err
	}

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Generator = app.Generator
	cli.Client = app.Client
	cli.EventLog = app.EventLog
	cli.MetricsCalc = app.MetricsCalc

	return app, nil
}

// Close releases resources held by the App.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines where configuration and the event log live:
// TSG_HOME if set, the current directory if it holds a .trellosankey file,
// otherwise the user's home directory.
func ResolveBasePath() string {
	if home := os.Getenv("TSG_HOME"); home != "" {
		return home
	}

	if cwd, err := os.Getwd(); err == nil {
		for _, name := range []string{".trellosankey", ".trellosankey.yaml"} {
			if _, err := os.Stat(filepath.Join(cwd, name)); err == nil {
				return cwd
			}
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// eventLogAdapter adapts the observability event log to core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	return a.log.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   "INFO",
		Type:    eventType,
		Message: eventType,
		Data:    data,
	})
}
