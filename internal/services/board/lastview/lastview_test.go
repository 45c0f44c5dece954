package lastview_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/services/board"
	"github.com/louisbranch/lanparty/internal/services/board/lastview"
	"github.com/louisbranch/lanparty/internal/storage/sqlite/sqlitetest"
)

type fixture struct {
	views    *lastview.Service
	category board.Category
	topics   []board.Topic
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := sqlitetest.Open(t)
	boards := board.NewService(store)
	category, err := boards.CreateCategory(ctx, "acmecon", "general", "General")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	var topics []board.Topic
	for _, title := range []string{"One", "Two"} {
		topic, err := boards.CreateTopic(ctx, category.ID, uuid.New(), title)
		if err != nil {
			t.Fatalf("create topic: %v", err)
		}
		topics = append(topics, topic)
	}
	return fixture{views: lastview.NewService(store), category: category, topics: topics}
}

func at(offset time.Duration) *time.Time {
	value := time.Now().UTC().Add(offset)
	return &value
}

func TestCategoryUnseenPostings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	empty := f.category
	empty.LastPostingUpdatedAt = nil
	if unseen, err := f.views.ContainsCategoryUnseenPostings(ctx, empty, userID); err != nil || unseen {
		t.Fatalf("category without postings: %v, %v", unseen, err)
	}

	posted := f.category
	posted.LastPostingUpdatedAt = at(-time.Hour)
	if unseen, err := f.views.ContainsCategoryUnseenPostings(ctx, posted, userID); err != nil || !unseen {
		t.Fatalf("never viewed category: %v, %v", unseen, err)
	}

	if err := f.views.MarkCategoryAsJustViewed(ctx, f.category.ID, userID); err != nil {
		t.Fatalf("mark viewed: %v", err)
	}
	if unseen, err := f.views.ContainsCategoryUnseenPostings(ctx, posted, userID); err != nil || unseen {
		t.Fatalf("viewed after posting: %v, %v", unseen, err)
	}
	posted.LastPostingUpdatedAt = at(time.Hour)
	if unseen, err := f.views.ContainsCategoryUnseenPostings(ctx, posted, userID); err != nil || !unseen {
		t.Fatalf("posting after view: %v, %v", unseen, err)
	}

	if err := f.views.DeleteLastCategoryViews(ctx, f.category.ID); err != nil {
		t.Fatalf("delete views: %v", err)
	}
	if _, ok, err := f.views.FindLastCategoryView(ctx, userID, f.category.ID); err != nil || ok {
		t.Fatalf("view after delete: %v, %v", ok, err)
	}
}

func TestTopicUnseenPostings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	topic := f.topics[0]
	topic.LastUpdatedAt = *at(-time.Hour)

	if unseen, err := f.views.ContainsTopicUnseenPostings(ctx, topic, userID); err != nil || !unseen {
		t.Fatalf("never viewed topic: %v, %v", unseen, err)
	}
	if err := f.views.MarkTopicAsJustViewed(ctx, topic.ID, userID); err != nil {
		t.Fatalf("mark viewed: %v", err)
	}
	if unseen, err := f.views.ContainsTopicUnseenPostings(ctx, topic, userID); err != nil || unseen {
		t.Fatalf("viewed topic: %v, %v", unseen, err)
	}

	if err := f.views.DeleteLastTopicViews(ctx, topic.ID); err != nil {
		t.Fatalf("delete views: %v", err)
	}
	if _, ok, err := f.views.FindTopicLastViewedAt(ctx, topic.ID, userID); err != nil || ok {
		t.Fatalf("view after delete: %v, %v", ok, err)
	}
}

func TestMarkAllTopicsInCategoryAsViewed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	if err := f.views.MarkAllTopicsInCategoryAsViewed(ctx, f.category.ID, userID); err != nil {
		t.Fatalf("mark all: %v", err)
	}
	for _, topic := range f.topics {
		if _, ok, err := f.views.FindTopicLastViewedAt(ctx, topic.ID, userID); err != nil || !ok {
			t.Fatalf("topic %s not viewed: %v, %v", topic.Title, ok, err)
		}
	}
	if err := f.views.MarkAllTopicsInCategoryAsViewed(ctx, uuid.New(), userID); err != nil {
		t.Fatalf("mark all in empty category: %v", err)
	}
}
