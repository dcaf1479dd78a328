package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Yinyue93/japanese-chat/internal/domain"
)

type ChatService struct {
	messageRepo domain.MessageRepository
}

func NewChatService(messageRepo domain.MessageRepository) *ChatService {
	return &ChatService{messageRepo: messageRepo}
}

// Append records a text message in the room's log and returns it with the
// server-side timestamp applied.
func (s *ChatService) Append(ctx context.Context, roomID, username, body string) (*domain.Message, error) {
	msg := domain.Message{
		Username:  username,
		Body:      body,
		Type:      domain.MessageText,
		Timestamp: time.Now(),
	}
	if err := s.messageRepo.AppendMessage(ctx, roomID, msg); err != nil {
		return &msg, fmt.Errorf("messageRepo.AppendMessage: %w", err)
	}
	return &msg, nil
}

func (s *ChatService) History(ctx context.Context, roomID string) ([]domain.Message, error) {
	msgs, err := s.messageRepo.ListMessages(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("messageRepo.ListMessages: %w", err)
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return msgs, nil
}

func (s *ChatService) Purge(ctx context.Context, roomID string) error {
	if err := s.messageRepo.DeleteRoomMessages(ctx, roomID); err != nil {
		return fmt.Errorf("messageRepo.DeleteRoomMessages: %w", err)
	}
	return nil
}
