package http

import "time"

type LoginRequest struct {
	Username string `json:"username"`
}

type AdminLoginRequest struct {
	AdminID  string `json:"adminId"`
	Password string `json:"password"`
}

type CreateRoomRequest struct {
	RoomName string `json:"roomName"`
	Capacity int    `json:"capacity"`
	Password string `json:"password"`
}

type JoinRoomRequest struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
	Token   string `json:"token,omitempty"`
}

// RoomItem is the public room view; the password hash never leaves the
// server.
type RoomItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Capacity    int       `json:"capacity"`
	UserCount   int       `json:"userCount"`
	HasPassword bool      `json:"hasPassword"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AdminRoomItem additionally exposes the roster for the admin console.
type AdminRoomItem struct {
	RoomItem
	Users []string `json:"users"`
}
