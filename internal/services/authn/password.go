package authn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/louisbranch/lanparty/internal/events"
	apperrors "github.com/louisbranch/lanparty/internal/platform/errors"
	"github.com/louisbranch/lanparty/internal/storage"
)

const (
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 10
	// MaxPasswordLength is the longest accepted password. bcrypt ignores
	// input beyond 72 bytes.
	MaxPasswordLength = 72
)

// PasswordCost is the bcrypt cost used for new hashes.
var PasswordCost = bcrypt.DefaultCost

var (
	// ErrPasswordLength indicates a password outside the accepted length.
	ErrPasswordLength = apperrors.New(apperrors.CodePasswordTooShort, fmt.Sprintf("password must be %d to %d characters long", MinPasswordLength, MaxPasswordLength))
	// ErrCredentialNotFound indicates a user without a password.
	ErrCredentialNotFound = apperrors.New(apperrors.CodeCredentialNotFound, "no credential stored for user")
)

// Credential is a user's password hash.
type Credential struct {
	UserID       uuid.UUID
	PasswordHash string
	UpdatedAt    time.Time
}

func hashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return "", ErrPasswordLength
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CreatePasswordHash stores the first credential of a user.
func (s *Service) CreatePasswordHash(ctx context.Context, userID uuid.UUID, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	return s.store.PutCredential(ctx, Credential{
		UserID:       userID,
		PasswordHash: hash,
		UpdatedAt:    s.now().UTC(),
	})
}

// UpdatePasswordHash replaces the user's password, revokes all of the
// user's sessions and publishes password-updated.
func (s *Service) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, password string, initiatorID uuid.UUID) (events.PasswordUpdated, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return events.PasswordUpdated{}, err
	}
	initiator, err := s.users.Get(ctx, initiatorID)
	if err != nil {
		return events.PasswordUpdated{}, fmt.Errorf("initiator: %w", err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return events.PasswordUpdated{}, err
	}
	now := s.now().UTC()
	if err := s.store.PutCredential(ctx, Credential{UserID: user.ID, PasswordHash: hash, UpdatedAt: now}); err != nil {
		return events.PasswordUpdated{}, fmt.Errorf("put credential: %w", err)
	}
	if err := s.store.DeleteSessionsForUser(ctx, user.ID); err != nil {
		return events.PasswordUpdated{}, fmt.Errorf("delete sessions: %w", err)
	}

	event := events.PasswordUpdated{
		Base:           events.NewBase(now, initiator.ID, initiator.ScreenName),
		UserID:         user.ID,
		UserScreenName: user.ScreenName,
	}
	s.signals.PasswordUpdated.Emit(ctx, s, event)
	return event, nil
}

// IsPasswordValidForUser reports whether password matches the stored hash.
// A user without a credential has no valid password.
func (s *Service) IsPasswordValidForUser(ctx context.Context, userID uuid.UUID, password string) (bool, error) {
	credential, err := s.store.GetCredential(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get credential: %w", err)
	}
	err = bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("compare password: %w", err)
	}
	return true, nil
}

// MigratePasswordHashIfOutdated rehashes password when the stored hash was
// made with a different cost.
func (s *Service) MigratePasswordHashIfOutdated(ctx context.Context, userID uuid.UUID, password string) error {
	credential, err := s.store.GetCredential(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrCredentialNotFound
	}
	if err != nil {
		return fmt.Errorf("get credential: %w", err)
	}
	cost, err := bcrypt.Cost([]byte(credential.PasswordHash))
	if err != nil {
		return fmt.Errorf("read hash cost: %w", err)
	}
	if cost == PasswordCost {
		return nil
	}
	return s.CreatePasswordHash(ctx, userID, password)
}

// DeletePasswordHash removes the user's credential.
func (s *Service) DeletePasswordHash(ctx context.Context, userID uuid.UUID) error {
	return s.store.DeleteCredential(ctx, userID)
}
