// Package models contains the shared data types for trello-sankey:
// Trello API payloads, cleaned card histories, flow data, and configuration.
package models

import "time"

// ActionType identifies the kind of board action Trello recorded.
type ActionType string

// Action types the generator cares about. The actions endpoint is filtered
// to exactly these two kinds.
const (
	ActionCreateCard ActionType = "createCard"
	ActionUpdateCard ActionType = "updateCard"
)

// TrelloBoard is a board summary as returned by the members/me/boards endpoint.
type TrelloBoard struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url,omitempty"`
	Closed bool   `json:"closed"`
}

// TrelloList is a list (column) on a Trello board.
type TrelloList struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
}

// TrelloCard is a card on a Trello board. ListID is the list the card
// currently sits in.
type TrelloCard struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	ListID string `json:"idList"`
	Closed bool   `json:"closed"`
}

// ActionCard is the card reference embedded in an action payload.
type ActionCard struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ActionList is the list reference embedded in an action payload.
type ActionList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TrelloActionData carries the action-specific payload. List is set for
// createCard actions; ListBefore/ListAfter for updateCard (move) actions.
// A move action missing either end is malformed and ignored downstream.
type TrelloActionData struct {
	Card       ActionCard  `json:"card"`
	List       *ActionList `json:"list,omitempty"`
	ListBefore *ActionList `json:"listBefore,omitempty"`
	ListAfter  *ActionList `json:"listAfter,omitempty"`
}

// TrelloAction is one recorded board action. The Trello API returns actions
// newest-first; consumers must reverse them to chronological order.
type TrelloAction struct {
	ID   string           `json:"id"`
	Type ActionType       `json:"type"`
	Date time.Time        `json:"date"`
	Data TrelloActionData `json:"data"`
}
