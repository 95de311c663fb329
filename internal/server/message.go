package server

import (
	"encoding/json"
	"time"

	"github.com/lox/blackjackd/internal/deck"
	"github.com/lox/blackjackd/internal/game"
	"github.com/lox/blackjackd/internal/table"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type AuthData struct {
	PlayerName string `json:"playerName"`
}

type StartRoundData struct {
	Bet int `json:"bet"`
}

type JoinTableData struct {
	TableID string `json:"tableId"`
}

type LeaveTableData struct {
	TableID string `json:"tableId"`
}

type PlaceBetData struct {
	TableID string `json:"tableId"`
	Bet     int    `json:"bet"`
}

type ConfirmData struct {
	TableID string `json:"tableId"`
}

type ActionData struct {
	TableID string `json:"tableId"`
	Action  string `json:"action"`
}

// Server → Client Messages

type AuthResponseData struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"playerId,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GameStateData wraps a single-player round snapshot
type GameStateData struct {
	Snapshot game.Snapshot `json:"snapshot"`
}

// TableStateData wraps a per-viewer table snapshot
type TableStateData struct {
	Snapshot table.Snapshot `json:"snapshot"`
}

type TableInfo struct {
	ID          string `json:"id"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	State       string `json:"state"`
}

type TableListData struct {
	Tables []TableInfo `json:"tables"`
}

type TableJoinedData struct {
	TableID string `json:"tableId"`
}

type TableLeftData struct {
	TableID string `json:"tableId"`
}

// DealerCardData reveals one dealer card during the paced dealer play
type DealerCardData struct {
	TableID string    `json:"tableId"`
	Card    deck.Card `json:"card"`
	Total   int       `json:"total"`
	Final   bool      `json:"final"`
}
