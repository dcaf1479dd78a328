package session

// Outbound events addressed to one connection or broadcast to a room.
const (
	EventJoinedRoom    = "joined-room"
	EventJoinError     = "join-error"
	EventLogin         = "login"
	EventLogout        = "logout"
	EventTyping        = "typing"
	EventStoppedTyping = "stopped-typing"
	EventNewMessage    = "new-message"
	EventRoomMessages  = "room-messages"
	EventMessageError  = "message-error"
)

// Conn is one live transport connection. Send must not block the caller;
// delivery is best-effort in the order Send is called.
type Conn interface {
	ID() string
	Send(event string, payload any)
	Close() error
}

type JoinedRoomPayload struct {
	RoomID   string `json:"roomId"`
	RoomName string `json:"roomName"`
}

// PresencePayload carries login/logout notifications. UserCount is the
// roster size after the change.
type PresencePayload struct {
	Username  string `json:"username"`
	UserCount int    `json:"userCount"`
}

type TypingPayload struct {
	Username string `json:"username"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
