package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Yinyue93/japanese-chat/internal/domain"
	"github.com/Yinyue93/japanese-chat/internal/security"

	"github.com/google/uuid"
)

const (
	defaultCapacity = 10
	maxCapacity     = 10
)

// RoomService backs the room catalog HTTP API: creation, listing, and the
// join pre-flight (password and capacity checks before a socket joins).
type RoomService struct {
	members    *MembershipService
	bcryptCost int
}

func NewRoomService(members *MembershipService, bcryptCost int) *RoomService {
	return &RoomService{members: members, bcryptCost: bcryptCost}
}

// CreateRoom creates a room with the given name, capacity, and optional
// password. Capacity is clamped to [1..10]; the password is stored hashed.
func (s *RoomService) CreateRoom(ctx context.Context, name string, capacity int, password string) (*domain.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("room name is empty")
	}
	if capacity <= 0 || capacity > maxCapacity {
		capacity = defaultCapacity
	}

	room := &domain.Room{
		ID:        uuid.NewString(),
		Name:      name,
		Capacity:  capacity,
		Users:     []string{},
		CreatedAt: time.Now(),
	}
	if password != "" {
		hash, err := security.HashPassword(password, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		room.PasswordHash = hash
	}

	if err := s.members.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *RoomService) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return s.members.ListRooms(ctx)
}

func (s *RoomService) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	return s.members.GetRoom(ctx, id)
}

// CheckJoin validates a join attempt without mutating any state: room
// existence, password, and capacity. Users already on the roster pass the
// capacity check (rejoin).
func (s *RoomService) CheckJoin(ctx context.Context, roomID, username, password string) error {
	room, err := s.members.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.HasPassword() {
		if err := security.ComparePassword(room.PasswordHash, password); err != nil {
			return domain.ErrWrongPassword
		}
	}
	if !room.HasUser(username) && len(room.Users) >= room.Capacity {
		return domain.ErrRoomFull
	}
	return nil
}
