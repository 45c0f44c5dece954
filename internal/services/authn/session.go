package authn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/events"
	apperrors "github.com/louisbranch/lanparty/internal/platform/errors"
	"github.com/louisbranch/lanparty/internal/services/users"
	"github.com/louisbranch/lanparty/internal/storage"
)

var (
	// ErrInvalidCredentials indicates an unknown screen name or wrong
	// password. The two are not distinguished.
	ErrInvalidCredentials = apperrors.New(apperrors.CodeInvalidCredentials, "invalid screen name or password")
	// ErrSessionNotFound indicates a token whose session was revoked.
	ErrSessionNotFound = apperrors.New(apperrors.CodeSessionNotFound, "session not found")
	// ErrUnauthenticated indicates a missing or malformed token.
	ErrUnauthenticated = apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	// ErrAccountSuspended indicates a suspended account.
	ErrAccountSuspended = apperrors.New(apperrors.CodeUserAccountSuspended, "user account is suspended")
	// ErrAccountDeleted indicates a deleted account.
	ErrAccountDeleted = apperrors.New(apperrors.CodeUserAccountDeleted, "user account has been deleted")
)

// Session is a server-side login record referenced by a token.
type Session struct {
	ID        string
	UserID    uuid.UUID
	CreatedAt time.Time
}

// LoginResult is a successful login.
type LoginResult struct {
	User      users.User
	Token     string
	ExpiresAt time.Time
}

// Login checks the credentials, opens a session and returns its token.
func (s *Service) Login(ctx context.Context, screenName, password string) (LoginResult, error) {
	user, err := s.users.FindByScreenName(ctx, screenName)
	if errors.Is(err, users.ErrUserNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	valid, err := s.IsPasswordValidForUser(ctx, user.ID, password)
	if err != nil {
		return LoginResult{}, err
	}
	if !valid {
		return LoginResult{}, ErrInvalidCredentials
	}
	// Account state is only revealed to callers holding the password.
	if err := checkAccountUsable(user); err != nil {
		return LoginResult{}, err
	}

	now := s.now().UTC()
	sessionID, err := s.newToken()
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.store.PutSession(ctx, Session{ID: sessionID, UserID: user.ID, CreatedAt: now}); err != nil {
		return LoginResult{}, fmt.Errorf("put session: %w", err)
	}
	token, expiresAt, err := s.tokens.sign(user.ID, sessionID, now)
	if err != nil {
		return LoginResult{}, err
	}

	s.signals.UserLoggedIn.Emit(ctx, s, events.UserLoggedIn{
		Base:      events.NewBase(now, user.ID, user.ScreenName),
		SessionID: sessionID,
	})
	return LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Authenticate resolves a session token to its user. The token must be
// valid, its session must still exist and the account must be usable.
func (s *Service) Authenticate(ctx context.Context, token string) (users.User, error) {
	if token == "" {
		return users.User{}, ErrUnauthenticated
	}
	userID, sessionID, err := s.tokens.parse(token, s.now())
	if err != nil {
		return users.User{}, apperrors.Wrap(apperrors.CodeUnauthenticated, "invalid session token", err)
	}
	session, err := s.store.GetSession(ctx, sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return users.User{}, ErrSessionNotFound
	}
	if err != nil {
		return users.User{}, fmt.Errorf("get session: %w", err)
	}
	if session.UserID != userID {
		return users.User{}, ErrSessionNotFound
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return users.User{}, err
	}
	if err := checkAccountUsable(user); err != nil {
		return users.User{}, err
	}
	return user, nil
}

// Logout deletes the session referenced by token.
func (s *Service) Logout(ctx context.Context, token string) error {
	_, sessionID, err := s.tokens.parse(token, s.now())
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUnauthenticated, "invalid session token", err)
	}
	return s.store.DeleteSession(ctx, sessionID)
}

func checkAccountUsable(user users.User) error {
	switch {
	case user.Deleted:
		return ErrAccountDeleted
	case user.Suspended:
		return ErrAccountSuspended
	}
	return nil
}
