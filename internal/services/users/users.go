// Package users manages the accounts every other service refers to.
package users

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
	// ErrUserNotFound indicates an unknown user ID or screen name.
	ErrUserNotFound = apperrors.New(apperrors.CodeUserNotFound, "user not found")
	// ErrScreenNameTaken indicates another account already uses the name.
	ErrScreenNameTaken = apperrors.New(apperrors.CodeUserScreenNameTaken, "screen name is already taken")
	// ErrEmptyScreenName indicates a missing screen name.
	ErrEmptyScreenName = apperrors.New(apperrors.CodeInvalidArgument, "screen name is required")
)

// User is an account.
type User struct {
	ID         uuid.UUID
	ScreenName string
	Admin      bool
	Suspended  bool
	Deleted    bool
	CreatedAt  time.Time
}

// Store persists users.
type Store interface {
	PutUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, userID uuid.UUID) (User, error)
	GetUserByScreenName(ctx context.Context, screenName string) (User, error)
	UpdateUserStatus(ctx context.Context, userID uuid.UUID, suspended, deleted bool) error
}

// Service manages users.
type Service struct {
	store Store
	now   func() time.Time
	newID func() (uuid.UUID, error)
}

// NewService builds a user service over store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now, newID: id.NewID}
}

// Create creates an account with the given screen name.
func (s *Service) Create(ctx context.Context, screenName string, admin bool) (User, error) {
	screenName = strings.TrimSpace(screenName)
	if screenName == "" {
		return User{}, ErrEmptyScreenName
	}
	userID, err := s.newID()
	if err != nil {
		return User{}, fmt.Errorf("generate user id: %w", err)
	}
	u := User{
		ID:         userID,
		ScreenName: screenName,
		Admin:      admin,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.PutUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return User{}, ErrScreenNameTaken
		}
		return User{}, fmt.Errorf("put user: %w", err)
	}
	return u, nil
}

// Get returns the user with userID.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return User{}, translateNotFound(err)
	}
	return u, nil
}

// FindByScreenName returns the user with the given screen name, compared
// case-insensitively.
func (s *Service) FindByScreenName(ctx context.Context, screenName string) (User, error) {
	screenName = strings.TrimSpace(screenName)
	if screenName == "" {
		return User{}, ErrUserNotFound
	}
	u, err := s.store.GetUserByScreenName(ctx, screenName)
	if err != nil {
		return User{}, translateNotFound(err)
	}
	return u, nil
}

// Suspend suspends the account. Suspended users cannot log in or be
// checked in.
func (s *Service) Suspend(ctx context.Context, userID uuid.UUID) error {
	return s.setStatus(ctx, userID, func(u *User) { u.Suspended = true })
}

// Unsuspend lifts a suspension.
func (s *Service) Unsuspend(ctx context.Context, userID uuid.UUID) error {
	return s.setStatus(ctx, userID, func(u *User) { u.Suspended = false })
}

// Delete marks the account as deleted. The row is kept for references.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.setStatus(ctx, userID, func(u *User) { u.Deleted = true })
}

func (s *Service) setStatus(ctx context.Context, userID uuid.UUID, apply func(*User)) error {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	apply(&u)
	if err := s.store.UpdateUserStatus(ctx, u.ID, u.Suspended, u.Deleted); err != nil {
		return fmt.Errorf("update user status: %w", translateNotFound(err))
	}
	return nil
}

func translateNotFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
