package conversation

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type mockMessageRepo struct {
	messages []*Message
}

func (m *mockMessageRepo) Create(_ context.Context, msg *Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockMessageRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*Message, int, error) {
	var items []*Message
	for _, msg := range m.messages {
		if msg.UserID == userID {
			items = append(items, msg)
		}
	}
	return items, len(items), nil
}

func TestAppend(t *testing.T) {
	repo := &mockMessageRepo{}
	svc := NewService(repo)
	userID := uuid.New()

	m, err := svc.Append(context.Background(), userID, RoleUser, "hello")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if m.ID == uuid.Nil {
		t.Error("expected id assigned")
	}
	if len(repo.messages) != 1 {
		t.Errorf("expected 1 message, got %d", len(repo.messages))
	}
}

func TestAppend_InvalidRole(t *testing.T) {
	svc := NewService(&mockMessageRepo{})
	if _, err := svc.Append(context.Background(), uuid.New(), "system", "x"); err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestAppend_EmptyContent(t *testing.T) {
	svc := NewService(&mockMessageRepo{})
	if _, err := svc.Append(context.Background(), uuid.New(), RoleUser, ""); err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestHistory_ScopedToUser(t *testing.T) {
	repo := &mockMessageRepo{}
	svc := NewService(repo)
	a, b := uuid.New(), uuid.New()

	svc.Append(context.Background(), a, RoleUser, "from a")
	svc.Append(context.Background(), b, RoleUser, "from b")

	items, total, err := svc.History(context.Background(), a, 20, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Content != "from a" {
		t.Errorf("expected only a's messages, got %d items", len(items))
	}
}
