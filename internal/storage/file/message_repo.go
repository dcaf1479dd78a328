package file

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/Yinyue93/japanese-chat/internal/domain"
)

// MessageRepository keeps all room logs in a single messages.json document
// keyed by room id, mirroring the catalog layout of rooms.json.
type MessageRepository struct {
	mu   sync.Mutex
	path string
}

func NewMessageRepository(dataDir string) *MessageRepository {
	return &MessageRepository{path: filepath.Join(dataDir, "messages.json")}
}

func (r *MessageRepository) ListMessages(ctx context.Context, roomID string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.read()
	if err != nil {
		return nil, err
	}
	return all[roomID], nil
}

func (r *MessageRepository) AppendMessage(ctx context.Context, roomID string, msg domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.read()
	if err != nil {
		return err
	}
	all[roomID] = append(all[roomID], msg)
	return writeJSON(r.path, all)
}

func (r *MessageRepository) DeleteRoomMessages(ctx context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.read()
	if err != nil {
		return err
	}
	if _, ok := all[roomID]; !ok {
		return nil
	}
	delete(all, roomID)
	return writeJSON(r.path, all)
}

func (r *MessageRepository) read() (map[string][]domain.Message, error) {
	all := make(map[string][]domain.Message)
	if err := readJSON(r.path, &all); err != nil {
		return nil, err
	}
	return all, nil
}
