package postgres

import (
	"context"
	"fmt"

	"github.com/Yinyue93/japanese-chat/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) ListRooms(ctx context.Context) ([]domain.Room, error) {
	query := `
		SELECT id, name, capacity, password_hash, users, created_at
		FROM rooms
		ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.Capacity, &rm.PasswordHash, &rm.Users, &rm.CreatedAt); err != nil {
			return nil, err
		}
		if rm.Users == nil {
			rm.Users = []string{}
		}
		rooms = append(rooms, rm)
	}
	return rooms, rows.Err()
}

// SaveRooms replaces the whole catalog in one transaction, keeping the
// atomic full-replace contract of the repository interface.
func (r *RoomRepository) SaveRooms(ctx context.Context, rooms []domain.Room) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM rooms`); err != nil {
		return fmt.Errorf("clear rooms: %w", err)
	}
	query := `
		INSERT INTO rooms (id, name, capacity, password_hash, users, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, rm := range rooms {
		if _, err := tx.Exec(ctx, query, rm.ID, rm.Name, rm.Capacity, rm.PasswordHash, rm.Users, rm.CreatedAt); err != nil {
			return fmt.Errorf("insert room %s: %w", rm.ID, err)
		}
	}
	return tx.Commit(ctx)
}
