// Package integration contains clients for external collaborators,
// currently the Trello REST API.
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/valter-silva-au/trello-sankey/pkg/models"
)

// TrelloAPIError wraps any failure talking to the Trello API. Upstream
// fetch failures are never retried here; callers decide how to surface them.
type TrelloAPIError struct {
	Endpoint string
	Err      error
}

// Error implements the error interface.
func (e *TrelloAPIError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Endpoint, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *TrelloAPIError) Unwrap() error {
	return e.Err
}

// TrelloClient defines the Trello API operations the generator and CLI need.
type TrelloClient interface {
	// GetMemberBoards lists the authenticated member's boards.
	GetMemberBoards(ctx context.Context) ([]models.TrelloBoard, error)
	// GetBoardLists returns all lists for a board.
	GetBoardLists(ctx context.Context, boardID string) ([]models.TrelloList, error)
	// GetBoardCards returns all cards for a board.
	GetBoardCards(ctx context.Context, boardID string) ([]models.TrelloCard, error)
	// GetBoardActions returns card creation and movement actions for a
	// board, newest-first, up to the API page limit.
	GetBoardActions(ctx context.Context, boardID string) ([]models.TrelloAction, error)
}

// httpTrelloClient implements TrelloClient over net/http with client-side
// rate limiting. Trello enforces 300 requests per 10 seconds per key.
type httpTrelloClient struct {
	baseURL string
	apiKey  string
	token   string
	client  *http.Client
	limiter *rate.Limiter
}

// NewTrelloClient creates a TrelloClient using the given credentials.
func NewTrelloClient(cfg models.GlobalConfig) TrelloClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.trello.com/1"
	}
	return &httpTrelloClient{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		token:   cfg.Token,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 10),
	}
}

// GetMemberBoards implements TrelloClient.
func (c *httpTrelloClient) GetMemberBoards(ctx context.Context) ([]models.TrelloBoard, error) {
	var boards []models.TrelloBoard
	if err := c.get(ctx, "members/me/boards", nil, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// GetBoardLists implements TrelloClient.
func (c *httpTrelloClient) GetBoardLists(ctx context.Context, boardID string) ([]models.TrelloList, error) {
	var lists []models.TrelloList
	if err := c.get(ctx, fmt.Sprintf("boards/%s/lists", boardID), nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// GetBoardCards implements TrelloClient.
func (c *httpTrelloClient) GetBoardCards(ctx context.Context, boardID string) ([]models.TrelloCard, error) {
	var cards []models.TrelloCard
	if err := c.get(ctx, fmt.Sprintf("boards/%s/cards", boardID), nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// GetBoardActions implements TrelloClient.
func (c *httpTrelloClient) GetBoardActions(ctx context.Context, boardID string) ([]models.TrelloAction, error) {
	query := url.Values{
		"filter": []string{"updateCard:idList,createCard"},
		"limit":  []string{"1000"},
	}
	var actions []models.TrelloAction
	if err := c.get(ctx, fmt.Sprintf("boards/%s/actions", boardID), query, &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

// get performs one authenticated GET against the Trello API and decodes the
// JSON response into out.
func (c *httpTrelloClient) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TrelloAPIError{Endpoint: endpoint, Err: err}
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("key", c.apiKey)
	query.Set("token", c.token)

	requestURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return &TrelloAPIError{Endpoint: endpoint, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &TrelloAPIError{Endpoint: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &TrelloAPIError{Endpoint: endpoint, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TrelloAPIError{Endpoint: endpoint, Err: fmt.Errorf("decoding response: %w", err)}
	}

	return nil
}
