package cli

import (
	"fmt"

	"github.com/valter-silva-au/trello-sankey/internal/core"
	"github.com/valter-silva-au/trello-sankey/internal/integration"
	"github.com/valter-silva-au/trello-sankey/internal/observability"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath    string
	Generator   core.SankeyGenerator
	Client      integration.TrelloClient
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator

	// CredErr holds the credential loading error, if any. Commands that
	// need the Trello API surface it instead of a generic nil-service error.
	CredErr error
)

// requireServices returns an error when the Trello-backed services are
// unavailable, preferring the credential error when that is the cause.
func requireServices() error {
	if Generator != nil && Client != nil {
		return nil
	}
	if CredErr != nil {
		return CredErr
	}
	return fmt.Errorf("trello services not initialized")
}
