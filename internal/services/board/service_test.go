package board_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/services/board"
	"github.com/louisbranch/lanparty/internal/storage/sqlite/sqlitetest"
)

func TestCreateTopicTouchesCategory(t *testing.T) {
	svc := board.NewService(sqlitetest.Open(t))
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, "acmecon", "general", "General")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if category.LastPostingUpdatedAt != nil {
		t.Fatalf("new category has posting time %v", category.LastPostingUpdatedAt)
	}

	topic, err := svc.CreateTopic(ctx, category.ID, uuid.New(), " Hello ")
	if err != nil {
		t.Fatalf("create topic: %v", err)
	}
	if topic.Title != "Hello" {
		t.Fatalf("title = %q", topic.Title)
	}

	got, err := svc.GetCategory(ctx, category.ID)
	if err != nil {
		t.Fatalf("get category: %v", err)
	}
	if got.LastPostingUpdatedAt == nil || !got.LastPostingUpdatedAt.Equal(topic.LastUpdatedAt.Truncate(time.Millisecond)) {
		t.Fatalf("last posting = %v, want %v", got.LastPostingUpdatedAt, topic.LastUpdatedAt)
	}

	if err := svc.RecordPosting(ctx, topic.ID); err != nil {
		t.Fatalf("record posting: %v", err)
	}
	touched, err := svc.GetTopic(ctx, topic.ID)
	if err != nil {
		t.Fatalf("get topic: %v", err)
	}
	if touched.LastUpdatedAt.Before(topic.CreatedAt.Truncate(time.Millisecond)) {
		t.Fatalf("last updated %v before creation %v", touched.LastUpdatedAt, topic.CreatedAt)
	}
}

func TestUnknownEntities(t *testing.T) {
	svc := board.NewService(sqlitetest.Open(t))
	ctx := context.Background()

	if _, err := svc.CreateTopic(ctx, uuid.New(), uuid.New(), "x"); !errors.Is(err, board.ErrCategoryNotFound) {
		t.Fatalf("expected category not found, got %v", err)
	}
	if _, err := svc.GetTopic(ctx, uuid.New()); !errors.Is(err, board.ErrTopicNotFound) {
		t.Fatalf("expected topic not found, got %v", err)
	}
	if err := svc.RecordPosting(ctx, uuid.New()); !errors.Is(err, board.ErrTopicNotFound) {
		t.Fatalf("expected topic not found, got %v", err)
	}
}
