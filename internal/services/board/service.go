package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/louisbranch/lanparty/internal/platform/errors"
	"github.com/louisbranch/lanparty/internal/platform/id"
	"github.com/louisbranch/lanparty/internal/storage"
)

var (
	ErrCategoryNotFound = apperrors.New(apperrors.CodeBoardCategoryNotFound, "board category not found")
	ErrTopicNotFound    = apperrors.New(apperrors.CodeBoardTopicNotFound, "board topic not found")
)

// Store persists categories and topics.
type Store interface {
	PutBoardCategory(ctx context.Context, category Category) error
	GetBoardCategory(ctx context.Context, categoryID uuid.UUID) (Category, error)
	PutBoardTopic(ctx context.Context, topic Topic) error
	GetBoardTopic(ctx context.Context, topicID uuid.UUID) (Topic, error)
	// TouchBoardTopic sets the topic's and its category's last update.
	TouchBoardTopic(ctx context.Context, topicID uuid.UUID, at time.Time) error
}

// Service manages the board structure.
type Service struct {
	store Store
	now   func() time.Time
	newID func() (uuid.UUID, error)
}

// NewService builds a board service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now, newID: id.NewID}
}

// CreateCategory adds a category to the board.
func (s *Service) CreateCategory(ctx context.Context, boardID, slug, title string) (Category, error) {
	categoryID, err := s.newID()
	if err != nil {
		return Category{}, fmt.Errorf("generate category id: %w", err)
	}
	category := Category{
		ID:      categoryID,
		BoardID: strings.TrimSpace(boardID),
		Slug:    strings.TrimSpace(slug),
		Title:   strings.TrimSpace(title),
	}
	if err := s.store.PutBoardCategory(ctx, category); err != nil {
		return Category{}, fmt.Errorf("put board category: %w", err)
	}
	return category, nil
}

// GetCategory returns one category.
func (s *Service) GetCategory(ctx context.Context, categoryID uuid.UUID) (Category, error) {
	category, err := s.store.GetBoardCategory(ctx, categoryID)
	if errors.Is(err, storage.ErrNotFound) {
		return Category{}, ErrCategoryNotFound
	}
	return category, err
}

// CreateTopic opens a topic in the category.
func (s *Service) CreateTopic(ctx context.Context, categoryID, creatorID uuid.UUID, title string) (Topic, error) {
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return Topic{}, err
	}
	topicID, err := s.newID()
	if err != nil {
		return Topic{}, fmt.Errorf("generate topic id: %w", err)
	}
	now := s.now().UTC()
	topic := Topic{
		ID:            topicID,
		CategoryID:    categoryID,
		CreatorID:     creatorID,
		Title:         strings.TrimSpace(title),
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
	if err := s.store.PutBoardTopic(ctx, topic); err != nil {
		return Topic{}, fmt.Errorf("put board topic: %w", err)
	}
	if err := s.store.TouchBoardTopic(ctx, topic.ID, now); err != nil {
		return Topic{}, fmt.Errorf("touch board topic: %w", err)
	}
	return topic, nil
}

// GetTopic returns one topic.
func (s *Service) GetTopic(ctx context.Context, topicID uuid.UUID) (Topic, error) {
	topic, err := s.store.GetBoardTopic(ctx, topicID)
	if errors.Is(err, storage.ErrNotFound) {
		return Topic{}, ErrTopicNotFound
	}
	return topic, err
}

// RecordPosting marks the topic and its category as updated now.
func (s *Service) RecordPosting(ctx context.Context, topicID uuid.UUID) error {
	err := s.store.TouchBoardTopic(ctx, topicID, s.now().UTC())
	if errors.Is(err, storage.ErrNotFound) {
		return ErrTopicNotFound
	}
	return err
}
