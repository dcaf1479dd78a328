package ws

import "encoding/json"

// Inbound events carried over the socket.
const (
	TypeJoinRoom    = "join-room"
	TypeSendMessage = "send-message"
	TypeTyping      = "typing"
	TypeStopTyping  = "stop-typing"
	TypeLeaveRoom   = "leave-room"
)

// Frame is the wire envelope in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// OutFrame mirrors Frame for writes, with an arbitrary payload.
type OutFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type JoinRoomPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

type SendMessagePayload struct {
	Message string `json:"message"`
}
