package domain

import "errors"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrNotJoined     = errors.New("user not joined to the room")
	ErrWrongPassword = errors.New("wrong room password")
)
