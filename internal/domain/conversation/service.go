package conversation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo MessageRepository
}

func NewService(repo MessageRepository) *Service {
	return &Service{repo: repo}
}

var validRoles = map[string]bool{
	RoleUser: true, RoleAssistant: true,
}

// Append adds a message to a user's log. Messages are never edited or
// deleted afterwards.
func (s *Service) Append(ctx context.Context, userID uuid.UUID, role, content string) (*Message, error) {
	if !validRoles[role] {
		return nil, fmt.Errorf("invalid message role: %s", role)
	}
	if content == "" {
		return nil, fmt.Errorf("message content is required")
	}
	m := &Message{UserID: userID, Role: role, Content: content}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Message, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}
