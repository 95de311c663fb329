package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjackd/internal/game"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn        *websocket.Conn
	send        chan *Message
	playerID    string
	tableID     string
	logger      *log.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	mu          sync.RWMutex
	closeOnce   sync.Once
	gameService *GameService
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, gameService *GameService) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:        conn,
		send:        make(chan *Message, 256),
		logger:      logger.WithPrefix("conn"),
		ctx:         ctx,
		cancel:      cancel,
		gameService: gameService,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown
			c.logger.Debug("send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetPlayer associates this connection with a player
func (c *Connection) SetPlayer(playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
}

// GetPlayer returns the associated player ID
func (c *Connection) GetPlayer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// SetTable associates this connection with a table
func (c *Connection) SetTable(tableID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tableID = tableID
}

// GetTable returns the associated table ID
func (c *Connection) GetTable() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tableID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

var ErrConnectionClosed = websocket.ErrCloseSent

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("received message", "type", msg.Type, "player", c.GetPlayer())

	switch msg.Type {
	case MessageTypeAuth:
		var data AuthData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse auth data")
			return
		}
		c.handleAuth(data)

	case MessageTypeStartRound:
		var data StartRoundData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse start round data")
			return
		}
		c.handleSolo(func(playerID string) (game.Snapshot, error) {
			return c.gameService.StartRound(playerID, data.Bet)
		})

	case MessageTypeHit:
		c.handleSolo(c.gameService.Hit)

	case MessageTypeStand:
		c.handleSolo(c.gameService.Stand)

	case MessageTypeDouble:
		c.handleSolo(c.gameService.Double)

	case MessageTypeRestart:
		c.handleSolo(c.gameService.Restart)

	case MessageTypeJoinTable:
		var data JoinTableData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join table data")
			return
		}
		c.handleJoinTable(data)

	case MessageTypeLeaveTable:
		var data LeaveTableData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse leave table data")
			return
		}
		c.handleLeaveTable(data)

	case MessageTypeListTables:
		c.handleListTables()

	case MessageTypePlaceBet:
		var data PlaceBetData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse place bet data")
			return
		}
		c.handleTableOp(func(playerID string) error {
			return c.gameService.PlaceBet(data.TableID, playerID, data.Bet)
		})

	case MessageTypeConfirm:
		var data ConfirmData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse confirm data")
			return
		}
		c.handleTableOp(func(playerID string) error {
			return c.gameService.Confirm(data.TableID, playerID)
		})

	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse action data")
			return
		}
		c.handleTableOp(func(playerID string) error {
			return c.gameService.Act(data.TableID, playerID, data.Action)
		})

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

func (c *Connection) handleAuth(data AuthData) {
	c.logger.Info("auth request", "playerName", data.PlayerName)

	// Simple authentication, any non-empty name is accepted
	if data.PlayerName == "" {
		c.sendError("invalid_auth", "Player name required")
		return
	}

	c.SetPlayer(data.PlayerName)

	response, _ := NewMessage(MessageTypeAuthResponse, AuthResponseData{
		Success:  true,
		PlayerID: data.PlayerName,
	})
	_ = c.SendMessage(response)
}

// handleSolo runs a single-player operation and replies with the resulting
// round snapshot.
func (c *Connection) handleSolo(op func(playerID string) (game.Snapshot, error)) {
	playerID := c.GetPlayer()
	if playerID == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return
	}
	if c.gameService == nil {
		c.sendError("service_unavailable", "Game service not available")
		return
	}

	snap, err := op(playerID)
	if err != nil {
		c.sendError("action_failed", err.Error())
		return
	}

	response, _ := NewMessage(MessageTypeGameState, GameStateData{Snapshot: snap})
	_ = c.SendMessage(response)
}

// handleTableOp runs a table operation for the authenticated player. State
// pushes come from the table's event broadcast, not from the reply.
func (c *Connection) handleTableOp(op func(playerID string) error) {
	playerID := c.GetPlayer()
	if playerID == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return
	}
	if c.gameService == nil {
		c.sendError("service_unavailable", "Game service not available")
		return
	}

	if err := op(playerID); err != nil {
		c.sendError("action_failed", err.Error())
	}
}

func (c *Connection) handleJoinTable(data JoinTableData) {
	c.logger.Info("join table request", "tableId", data.TableID, "player", c.GetPlayer())

	playerID := c.GetPlayer()
	if playerID == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return
	}
	if c.gameService == nil {
		c.sendError("service_unavailable", "Game service not available")
		return
	}

	if err := c.gameService.JoinTable(data.TableID, playerID); err != nil {
		c.sendError("join_failed", err.Error())
		return
	}

	c.SetTable(data.TableID)

	response, _ := NewMessage(MessageTypeTableJoined, TableJoinedData{TableID: data.TableID})
	_ = c.SendMessage(response)
}

func (c *Connection) handleLeaveTable(data LeaveTableData) {
	c.logger.Info("leave table request", "tableId", data.TableID, "player", c.GetPlayer())

	playerID := c.GetPlayer()
	if playerID == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return
	}
	if c.gameService == nil {
		c.sendError("service_unavailable", "Game service not available")
		return
	}

	if err := c.gameService.LeaveTable(data.TableID, playerID); err != nil {
		c.sendError("leave_failed", err.Error())
		return
	}

	c.SetTable("")

	response, _ := NewMessage(MessageTypeTableLeft, TableLeftData{TableID: data.TableID})
	_ = c.SendMessage(response)
}

func (c *Connection) handleListTables() {
	if c.gameService == nil {
		c.sendError("service_unavailable", "Game service not available")
		return
	}

	response, _ := NewMessage(MessageTypeTableList, TableListData{
		Tables: c.gameService.ListTables(),
	})
	_ = c.SendMessage(response)
}
