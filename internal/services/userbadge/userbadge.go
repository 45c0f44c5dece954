// Package userbadge manages badges and awards them to users.
package userbadge

import (
	"context"
	"errors"
	"fmt"
	"regexp"
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

var (
	ErrBadgeNotFound  = apperrors.New(apperrors.CodeBadgeNotFound, "badge not found")
	ErrBadgeSlugTaken = apperrors.New(apperrors.CodeConflict, "badge slug is already taken")
	ErrInvalidSlug    = apperrors.New(apperrors.CodeInvalidArgument, "slug must be lowercase letters, digits and dashes")
	ErrEmptyLabel     = apperrors.New(apperrors.CodeInvalidArgument, "badge label is required")

	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Signals are the signals published by this package.
type Signals struct {
	UserBadgeAwarded *signal.Signal
}

// NewSignals declares the badge signals in ns.
func NewSignals(ns *signal.Namespace) Signals {
	return Signals{UserBadgeAwarded: ns.Signal(events.NameUserBadgeAwarded)}
}

// Badge is an award users can receive.
type Badge struct {
	ID          uuid.UUID
	Slug        string
	Label       string
	Description string
	Featured    bool
}

// Awarding records that a badge was given to a user.
type Awarding struct {
	ID        uuid.UUID
	BadgeID   uuid.UUID
	UserID    uuid.UUID
	AwardedAt time.Time
}

// AwardedBadge is a badge with the time it was awarded to a user.
type AwardedBadge struct {
	Badge
	AwardedAt time.Time
}

// Store persists badges and awardings.
type Store interface {
	PutBadge(ctx context.Context, badge Badge) error
	GetBadge(ctx context.Context, badgeID uuid.UUID) (Badge, error)
	ListBadges(ctx context.Context) ([]Badge, error)
	PutAwarding(ctx context.Context, awarding Awarding) error
	CountAwardings(ctx context.Context) (map[uuid.UUID]int, error)
	ListBadgesAwardedToUser(ctx context.Context, userID uuid.UUID) ([]AwardedBadge, error)
}

// UserGetter resolves users.
type UserGetter interface {
	Get(ctx context.Context, userID uuid.UUID) (users.User, error)
}

// Service manages badges.
type Service struct {
	store   Store
	users   UserGetter
	signals Signals
	now     func() time.Time
	newID   func() (uuid.UUID, error)
}

// NewService builds a badge service.
func NewService(store Store, userGetter UserGetter, signals Signals) *Service {
	return &Service{store: store, users: userGetter, signals: signals, now: time.Now, newID: id.NewID}
}

// CreateBadge defines a new badge.
func (s *Service) CreateBadge(ctx context.Context, slug, label, description string, featured bool) (Badge, error) {
	slug = strings.TrimSpace(slug)
	label = strings.TrimSpace(label)
	if !slugPattern.MatchString(slug) {
		return Badge{}, ErrInvalidSlug
	}
	if label == "" {
		return Badge{}, ErrEmptyLabel
	}
	badgeID, err := s.newID()
	if err != nil {
		return Badge{}, fmt.Errorf("generate badge id: %w", err)
	}
	badge := Badge{
		ID:          badgeID,
		Slug:        slug,
		Label:       label,
		Description: strings.TrimSpace(description),
		Featured:    featured,
	}
	if err := s.store.PutBadge(ctx, badge); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return Badge{}, ErrBadgeSlugTaken
		}
		return Badge{}, fmt.Errorf("put badge: %w", err)
	}
	return badge, nil
}

// GetBadge returns one badge.
func (s *Service) GetBadge(ctx context.Context, badgeID uuid.UUID) (Badge, error) {
	badge, err := s.store.GetBadge(ctx, badgeID)
	if errors.Is(err, storage.ErrNotFound) {
		return Badge{}, ErrBadgeNotFound
	}
	if err != nil {
		return Badge{}, fmt.Errorf("get badge: %w", err)
	}
	return badge, nil
}

// GetAllBadges returns every badge ordered by label.
func (s *Service) GetAllBadges(ctx context.Context) ([]Badge, error) {
	return s.store.ListBadges(ctx)
}

// AwardBadgeToUser awards the badge and publishes user-badge-awarded. A
// nil initiatorID marks an award made by the system.
func (s *Service) AwardBadgeToUser(ctx context.Context, badgeID, awardeeID, initiatorID uuid.UUID) (Awarding, events.UserBadgeAwarded, error) {
	badge, err := s.GetBadge(ctx, badgeID)
	if err != nil {
		return Awarding{}, events.UserBadgeAwarded{}, err
	}
	awardee, err := s.users.Get(ctx, awardeeID)
	if err != nil {
		return Awarding{}, events.UserBadgeAwarded{}, err
	}
	var initiator users.User
	if initiatorID != uuid.Nil {
		initiator, err = s.users.Get(ctx, initiatorID)
		if err != nil {
			return Awarding{}, events.UserBadgeAwarded{}, fmt.Errorf("initiator: %w", err)
		}
	}

	awardingID, err := s.newID()
	if err != nil {
		return Awarding{}, events.UserBadgeAwarded{}, fmt.Errorf("generate awarding id: %w", err)
	}
	awarding := Awarding{
		ID:        awardingID,
		BadgeID:   badge.ID,
		UserID:    awardee.ID,
		AwardedAt: s.now().UTC(),
	}
	if err := s.store.PutAwarding(ctx, awarding); err != nil {
		return Awarding{}, events.UserBadgeAwarded{}, fmt.Errorf("put awarding: %w", err)
	}

	event := events.UserBadgeAwarded{
		Base:           events.NewBase(awarding.AwardedAt, initiator.ID, initiator.ScreenName),
		UserID:         awardee.ID,
		UserScreenName: awardee.ScreenName,
		BadgeID:        badge.ID,
		BadgeLabel:     badge.Label,
	}
	s.signals.UserBadgeAwarded.Emit(ctx, s, event)
	return awarding, event, nil
}

// CountAwardings returns the number of awardings per badge ID. Badges
// never awarded are included with zero.
func (s *Service) CountAwardings(ctx context.Context) (map[uuid.UUID]int, error) {
	return s.store.CountAwardings(ctx)
}

// GetBadgesAwardedToUser returns the user's badges, most recent first.
func (s *Service) GetBadgesAwardedToUser(ctx context.Context, userID uuid.UUID) ([]AwardedBadge, error) {
	return s.store.ListBadgesAwardedToUser(ctx, userID)
}
