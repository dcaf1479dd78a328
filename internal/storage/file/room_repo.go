package file

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/Yinyue93/japanese-chat/internal/domain"
)

type RoomRepository struct {
	mu   sync.Mutex
	path string
}

func NewRoomRepository(dataDir string) *RoomRepository {
	return &RoomRepository{path: filepath.Join(dataDir, "rooms.json")}
}

func (r *RoomRepository) ListRooms(ctx context.Context) ([]domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rooms []domain.Room
	if err := readJSON(r.path, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *RoomRepository) SaveRooms(ctx context.Context, rooms []domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rooms == nil {
		rooms = []domain.Room{}
	}
	return writeJSON(r.path, rooms)
}
