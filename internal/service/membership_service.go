package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/Yinyue93/japanese-chat/internal/domain"
)

// MembershipService owns every read-modify-write of the persisted room
// catalog. The catalog is stored as one document, so the exclusion region
// is the catalog itself: a single mutex covers each load-mutate-save unit
// to prevent lost updates between concurrent callers.
type MembershipService struct {
	mu       sync.Mutex
	roomRepo domain.RoomRepository
}

func NewMembershipService(roomRepo domain.RoomRepository) *MembershipService {
	return &MembershipService{roomRepo: roomRepo}
}

func (s *MembershipService) ListRooms(ctx context.Context) ([]domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomRepo.ListRooms(ctx)
}

func (s *MembershipService) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.roomRepo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("roomRepo.ListRooms: %w", err)
	}
	for i := range rooms {
		if rooms[i].ID == roomID {
			return &rooms[i], nil
		}
	}
	return nil, domain.ErrRoomNotFound
}

func (s *MembershipService) CreateRoom(ctx context.Context, room *domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.roomRepo.ListRooms(ctx)
	if err != nil {
		return fmt.Errorf("roomRepo.ListRooms: %w", err)
	}
	rooms = append(rooms, *room)
	if err := s.roomRepo.SaveRooms(ctx, rooms); err != nil {
		return fmt.Errorf("roomRepo.SaveRooms: %w", err)
	}
	return nil
}

// Join appends username to the roster unless already listed. A user already
// on the roster rejoins without a capacity check (extra tab or reconnect).
func (s *MembershipService) Join(ctx context.Context, roomID, username string) (*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.roomRepo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("roomRepo.ListRooms: %w", err)
	}
	idx := findRoom(rooms, roomID)
	if idx < 0 {
		return nil, domain.ErrRoomNotFound
	}
	room := &rooms[idx]
	if room.HasUser(username) {
		cp := *room
		return &cp, nil
	}
	if len(room.Users) >= room.Capacity {
		return nil, domain.ErrRoomFull
	}
	room.Users = append(room.Users, username)
	if err := s.roomRepo.SaveRooms(ctx, rooms); err != nil {
		return nil, fmt.Errorf("roomRepo.SaveRooms: %w", err)
	}
	cp := *room
	return &cp, nil
}

// Leave removes username from the roster if present and returns the new
// roster size.
func (s *MembershipService) Leave(ctx context.Context, roomID, username string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.roomRepo.ListRooms(ctx)
	if err != nil {
		return 0, fmt.Errorf("roomRepo.ListRooms: %w", err)
	}
	idx := findRoom(rooms, roomID)
	if idx < 0 {
		return 0, domain.ErrRoomNotFound
	}
	room := &rooms[idx]
	kept := room.Users[:0]
	removed := false
	for _, u := range room.Users {
		if u == username {
			removed = true
			continue
		}
		kept = append(kept, u)
	}
	room.Users = kept
	if removed {
		if err := s.roomRepo.SaveRooms(ctx, rooms); err != nil {
			return len(room.Users), fmt.Errorf("roomRepo.SaveRooms: %w", err)
		}
	}
	return len(room.Users), nil
}

// RemoveRoom drops the room from the catalog. Removing an already-removed
// room is a no-op.
func (s *MembershipService) RemoveRoom(ctx context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.roomRepo.ListRooms(ctx)
	if err != nil {
		return fmt.Errorf("roomRepo.ListRooms: %w", err)
	}
	idx := findRoom(rooms, roomID)
	if idx < 0 {
		return nil
	}
	rooms = append(rooms[:idx], rooms[idx+1:]...)
	if err := s.roomRepo.SaveRooms(ctx, rooms); err != nil {
		return fmt.Errorf("roomRepo.SaveRooms: %w", err)
	}
	return nil
}

func findRoom(rooms []domain.Room, roomID string) int {
	for i := range rooms {
		if rooms[i].ID == roomID {
			return i
		}
	}
	return -1
}
