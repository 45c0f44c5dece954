// Package lastview remembers when a user last viewed a board category or
// topic, so new postings can be flagged as unseen.
package lastview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/services/board"
	"github.com/louisbranch/lanparty/internal/storage"
)

// LastCategoryView is the last time a user viewed a category.
type LastCategoryView struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
	OccurredAt time.Time
}

// LastTopicView is the last time a user viewed a topic.
type LastTopicView struct {
	UserID     uuid.UUID
	TopicID    uuid.UUID
	OccurredAt time.Time
}

// Store persists last views. Upserts replace the time of an existing
// (user, target) pair.
type Store interface {
	UpsertLastCategoryView(ctx context.Context, view LastCategoryView) error
	FindLastCategoryView(ctx context.Context, userID, categoryID uuid.UUID) (LastCategoryView, error)
	DeleteLastCategoryViews(ctx context.Context, categoryID uuid.UUID) error
	UpsertLastTopicViews(ctx context.Context, views []LastTopicView) error
	FindLastTopicView(ctx context.Context, userID, topicID uuid.UUID) (LastTopicView, error)
	DeleteLastTopicViews(ctx context.Context, topicID uuid.UUID) error
	ListTopicIDsInCategory(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error)
}

// Service tracks last views.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService builds a last-view service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// ContainsCategoryUnseenPostings reports whether the category has postings
// newer than the user's last view of it. A category without postings has
// nothing unseen; one never viewed has.
func (s *Service) ContainsCategoryUnseenPostings(ctx context.Context, category board.Category, userID uuid.UUID) (bool, error) {
	if category.LastPostingUpdatedAt == nil {
		return false, nil
	}
	view, ok, err := s.FindLastCategoryView(ctx, userID, category.ID)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return category.LastPostingUpdatedAt.After(view.OccurredAt), nil
}

// FindLastCategoryView returns the user's last view of the category.
func (s *Service) FindLastCategoryView(ctx context.Context, userID, categoryID uuid.UUID) (LastCategoryView, bool, error) {
	view, err := s.store.FindLastCategoryView(ctx, userID, categoryID)
	if errors.Is(err, storage.ErrNotFound) {
		return LastCategoryView{}, false, nil
	}
	if err != nil {
		return LastCategoryView{}, false, fmt.Errorf("find last category view: %w", err)
	}
	return view, true, nil
}

// MarkCategoryAsJustViewed records that the user viewed the category now.
func (s *Service) MarkCategoryAsJustViewed(ctx context.Context, categoryID, userID uuid.UUID) error {
	return s.store.UpsertLastCategoryView(ctx, LastCategoryView{
		UserID:     userID,
		CategoryID: categoryID,
		OccurredAt: s.now().UTC(),
	})
}

// DeleteLastCategoryViews forgets every view of the category.
func (s *Service) DeleteLastCategoryViews(ctx context.Context, categoryID uuid.UUID) error {
	return s.store.DeleteLastCategoryViews(ctx, categoryID)
}

// ContainsTopicUnseenPostings reports whether the topic was updated after
// the user last viewed it. A topic never viewed is unseen.
func (s *Service) ContainsTopicUnseenPostings(ctx context.Context, topic board.Topic, userID uuid.UUID) (bool, error) {
	lastViewedAt, ok, err := s.FindTopicLastViewedAt(ctx, topic.ID, userID)
	if err != nil {
		return false, err
	}
	return !ok || topic.LastUpdatedAt.After(lastViewedAt), nil
}

// FindTopicLastViewedAt returns when the user last viewed the topic.
func (s *Service) FindTopicLastViewedAt(ctx context.Context, topicID, userID uuid.UUID) (time.Time, bool, error) {
	view, err := s.store.FindLastTopicView(ctx, userID, topicID)
	if errors.Is(err, storage.ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("find last topic view: %w", err)
	}
	return view.OccurredAt, true, nil
}

// MarkTopicAsJustViewed records that the user viewed the topic now.
func (s *Service) MarkTopicAsJustViewed(ctx context.Context, topicID, userID uuid.UUID) error {
	return s.store.UpsertLastTopicViews(ctx, []LastTopicView{{
		UserID:     userID,
		TopicID:    topicID,
		OccurredAt: s.now().UTC(),
	}})
}

// MarkAllTopicsInCategoryAsViewed marks every topic of the category as
// viewed now.
func (s *Service) MarkAllTopicsInCategoryAsViewed(ctx context.Context, categoryID, userID uuid.UUID) error {
	topicIDs, err := s.store.ListTopicIDsInCategory(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("list topics in category: %w", err)
	}
	if len(topicIDs) == 0 {
		return nil
	}
	now := s.now().UTC()
	views := make([]LastTopicView, 0, len(topicIDs))
	for _, topicID := range topicIDs {
		views = append(views, LastTopicView{UserID: userID, TopicID: topicID, OccurredAt: now})
	}
	return s.store.UpsertLastTopicViews(ctx, views)
}

// DeleteLastTopicViews forgets every view of the topic.
func (s *Service) DeleteLastTopicViews(ctx context.Context, topicID uuid.UUID) error {
	return s.store.DeleteLastTopicViews(ctx, topicID)
}
