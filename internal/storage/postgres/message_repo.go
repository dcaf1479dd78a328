package postgres

import (
	"context"

	"github.com/Yinyue93/japanese-chat/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) ListMessages(ctx context.Context, roomID string) ([]domain.Message, error) {
	query := `
		SELECT username, body, type, image_ref, created_at
		FROM room_messages
		WHERE room_id = $1
		ORDER BY created_at, seq`
	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.Username, &m.Body, &m.Type, &m.ImageRef, &m.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MessageRepository) AppendMessage(ctx context.Context, roomID string, msg domain.Message) error {
	query := `
		INSERT INTO room_messages (room_id, username, body, type, image_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query, roomID, msg.Username, msg.Body, msg.Type, msg.ImageRef, msg.Timestamp)
	return err
}

func (r *MessageRepository) DeleteRoomMessages(ctx context.Context, roomID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM room_messages WHERE room_id = $1`, roomID)
	return err
}
