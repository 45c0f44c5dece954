// Package tourney manages comments on tournament matches.
package tourney

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/events"
	apperrors "github.com/louisbranch/lanparty/internal/platform/errors"
	"github.com/louisbranch/lanparty/internal/platform/id"
	"github.com/louisbranch/lanparty/internal/platform/signal"
	"github.com/louisbranch/lanparty/internal/services/users"
	"github.com/louisbranch/lanparty/internal/storage"
)

// MaxCommentLength bounds a comment body in characters.
const MaxCommentLength = 4000

var (
	ErrCommentBodyEmpty   = apperrors.New(apperrors.CodeCommentBodyEmpty, "comment body is required")
	ErrCommentBodyTooLong = apperrors.New(apperrors.CodeInvalidArgument, fmt.Sprintf("comment body must be at most %d characters", MaxCommentLength))
	ErrCommentNotFound    = apperrors.New(apperrors.CodeNotFound, "comment not found")
)

// Signals are the signals published by this package.
type Signals struct {
	MatchCommentCreated *signal.Signal
}

// NewSignals declares the tourney signals in ns.
func NewSignals(ns *signal.Namespace) Signals {
	return Signals{MatchCommentCreated: ns.Signal(events.NameTourneyMatchCommentCreated)}
}

// MatchComment is a comment on a match.
type MatchComment struct {
	ID        uuid.UUID
	MatchID   uuid.UUID
	CreatorID uuid.UUID
	Body      string
	Hidden    bool
	CreatedAt time.Time
}

// Store persists match comments.
type Store interface {
	PutMatchComment(ctx context.Context, comment MatchComment) error
	GetMatchComment(ctx context.Context, commentID uuid.UUID) (MatchComment, error)
	ListMatchComments(ctx context.Context, matchID uuid.UUID) ([]MatchComment, error)
	SetMatchCommentHidden(ctx context.Context, commentID uuid.UUID, hidden bool) error
}

// UserGetter resolves users.
type UserGetter interface {
	Get(ctx context.Context, userID uuid.UUID) (users.User, error)
}

// Service manages match comments.
type Service struct {
	store   Store
	users   UserGetter
	signals Signals
	now     func() time.Time
	newID   func() (uuid.UUID, error)
}

// NewService builds a tourney service.
func NewService(store Store, userGetter UserGetter, signals Signals) *Service {
	return &Service{store: store, users: userGetter, signals: signals, now: time.Now, newID: id.NewID}
}

// CreateComment posts a comment on the match and publishes
// match-comment-created.
func (s *Service) CreateComment(ctx context.Context, matchID, creatorID uuid.UUID, body string) (MatchComment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return MatchComment{}, ErrCommentBodyEmpty
	}
	if len([]rune(body)) > MaxCommentLength {
		return MatchComment{}, ErrCommentBodyTooLong
	}
	creator, err := s.users.Get(ctx, creatorID)
	if err != nil {
		return MatchComment{}, fmt.Errorf("creator: %w", err)
	}

	commentID, err := s.newID()
	if err != nil {
		return MatchComment{}, fmt.Errorf("generate comment id: %w", err)
	}
	comment := MatchComment{
		ID:        commentID,
		MatchID:   matchID,
		CreatorID: creator.ID,
		Body:      body,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.PutMatchComment(ctx, comment); err != nil {
		return MatchComment{}, fmt.Errorf("put match comment: %w", err)
	}

	s.signals.MatchCommentCreated.Emit(ctx, s, events.TourneyMatchCommentCreated{
		Base:      events.NewBase(comment.CreatedAt, creator.ID, creator.ScreenName),
		MatchID:   matchID,
		CommentID: comment.ID,
	})
	return comment, nil
}

// GetComments returns the match's comments, oldest first. Hidden comments
// are included only when includeHidden is set.
func (s *Service) GetComments(ctx context.Context, matchID uuid.UUID, includeHidden bool) ([]MatchComment, error) {
	comments, err := s.store.ListMatchComments(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match comments: %w", err)
	}
	if includeHidden {
		return comments, nil
	}
	visible := comments[:0]
	for _, comment := range comments {
		if !comment.Hidden {
			visible = append(visible, comment)
		}
	}
	return visible, nil
}

// GetComment returns one comment.
func (s *Service) GetComment(ctx context.Context, commentID uuid.UUID) (MatchComment, error) {
	comment, err := s.store.GetMatchComment(ctx, commentID)
	if errors.Is(err, storage.ErrNotFound) {
		return MatchComment{}, ErrCommentNotFound
	}
	return comment, err
}

// HideComment hides a comment from non-moderators.
func (s *Service) HideComment(ctx context.Context, commentID uuid.UUID) error {
	return s.setHidden(ctx, commentID, true)
}

// UnhideComment reverses HideComment.
func (s *Service) UnhideComment(ctx context.Context, commentID uuid.UUID) error {
	return s.setHidden(ctx, commentID, false)
}

func (s *Service) setHidden(ctx context.Context, commentID uuid.UUID, hidden bool) error {
	err := s.store.SetMatchCommentHidden(ctx, commentID, hidden)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrCommentNotFound
	}
	return err
}
