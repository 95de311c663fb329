package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
// These are used for client-server communication protocol
const (
	// Client to server messages
	MessageTypeAuth       MessageType = "auth"
	MessageTypeStartRound MessageType = "start_round"
	MessageTypeHit        MessageType = "hit"
	MessageTypeStand      MessageType = "stand"
	MessageTypeDouble     MessageType = "double"
	MessageTypeRestart    MessageType = "restart"
	MessageTypeJoinTable  MessageType = "join_table"
	MessageTypeLeaveTable MessageType = "leave_table"
	MessageTypeListTables MessageType = "list_tables"
	MessageTypePlaceBet   MessageType = "place_bet"
	MessageTypeConfirm    MessageType = "confirm"
	MessageTypeAction     MessageType = "action"

	// Server to client messages
	MessageTypeAuthResponse MessageType = "auth_response"
	MessageTypeError        MessageType = "error"
	MessageTypeGameState    MessageType = "game_state"
	MessageTypeTableState   MessageType = "table_state"
	MessageTypeTableList    MessageType = "table_list"
	MessageTypeTableJoined  MessageType = "table_joined"
	MessageTypeTableLeft    MessageType = "table_left"
	MessageTypeDealerCard   MessageType = "dealer_card"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
