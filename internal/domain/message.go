package domain

import "time"

type MessageType string

const (
	MessageText   MessageType = "text"
	MessageImage  MessageType = "image"
	MessageSystem MessageType = "system"
)

// Message is immutable once appended to a room's log.
type Message struct {
	Username  string      `json:"username"`
	Body      string      `json:"message"`
	Type      MessageType `json:"type"`
	ImageRef  string      `json:"imageUrl,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
