package conversation

import (
	"context"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Message, int, error)
}
