package domain

import "context"

// RoomRepository persists the room catalog as one ordered document.
// SaveRooms replaces the whole catalog atomically.
type RoomRepository interface {
	ListRooms(ctx context.Context) ([]Room, error)
	SaveRooms(ctx context.Context, rooms []Room) error
}

// MessageRepository stores the append-only per-room message log.
type MessageRepository interface {
	ListMessages(ctx context.Context, roomID string) ([]Message, error)
	AppendMessage(ctx context.Context, roomID string, msg Message) error
	DeleteRoomMessages(ctx context.Context, roomID string) error
}

// ImageStore owns uploaded room assets. Deletion is best-effort.
type ImageStore interface {
	DeleteRoomAssets(ctx context.Context, roomID string) error
}
