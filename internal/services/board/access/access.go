// Package access grants users access to restricted boards.
package access

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

// ErrGrantNotFound indicates the user holds no grant for the board.
var ErrGrantNotFound = apperrors.New(apperrors.CodeNotFound, "board access grant not found")

// AccessGrant allows a user to access a board.
type AccessGrant struct {
	ID        uuid.UUID
	BoardID   string
	UserID    uuid.UUID
	CreatedAt time.Time
}

// Store persists access grants.
type Store interface {
	// PutAccessGrant ignores a grant for an existing (board, user) pair.
	PutAccessGrant(ctx context.Context, grant AccessGrant) error
	DeleteAccessGrant(ctx context.Context, boardID string, userID uuid.UUID) error
	FindAccessGrant(ctx context.Context, boardID string, userID uuid.UUID) (AccessGrant, error)
	ListAccessGrants(ctx context.Context, boardID string) ([]AccessGrant, error)
}

// Service manages access grants.
type Service struct {
	store Store
	now   func() time.Time
	newID func() (uuid.UUID, error)
}

// NewService builds an access service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now, newID: id.NewID}
}

// GrantAccess grants the user access to the board. Granting twice keeps
// the first grant.
func (s *Service) GrantAccess(ctx context.Context, boardID string, userID uuid.UUID) (AccessGrant, error) {
	boardID = strings.TrimSpace(boardID)
	if boardID == "" {
		return AccessGrant{}, apperrors.New(apperrors.CodeInvalidArgument, "board id is required")
	}
	grantID, err := s.newID()
	if err != nil {
		return AccessGrant{}, fmt.Errorf("generate grant id: %w", err)
	}
	if err := s.store.PutAccessGrant(ctx, AccessGrant{
		ID:        grantID,
		BoardID:   boardID,
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	}); err != nil {
		return AccessGrant{}, fmt.Errorf("put access grant: %w", err)
	}
	return s.findGrant(ctx, boardID, userID)
}

// RevokeAccess removes the user's grant for the board.
func (s *Service) RevokeAccess(ctx context.Context, boardID string, userID uuid.UUID) error {
	err := s.store.DeleteAccessGrant(ctx, boardID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrGrantNotFound
	}
	return err
}

// HasAccess reports whether the user holds a grant for the board.
func (s *Service) HasAccess(ctx context.Context, boardID string, userID uuid.UUID) (bool, error) {
	_, err := s.findGrant(ctx, boardID, userID)
	if errors.Is(err, ErrGrantNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetGrants returns the board's grants, oldest first.
func (s *Service) GetGrants(ctx context.Context, boardID string) ([]AccessGrant, error) {
	return s.store.ListAccessGrants(ctx, boardID)
}

func (s *Service) findGrant(ctx context.Context, boardID string, userID uuid.UUID) (AccessGrant, error) {
	grant, err := s.store.FindAccessGrant(ctx, boardID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return AccessGrant{}, ErrGrantNotFound
	}
	if err != nil {
		return AccessGrant{}, fmt.Errorf("find access grant: %w", err)
	}
	return grant, nil
}
