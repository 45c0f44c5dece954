package authn

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/platform/id"
	"github.com/louisbranch/lanparty/internal/services/users"
)

// Store persists credentials and sessions.
type Store interface {
	PutCredential(ctx context.Context, credential Credential) error
	GetCredential(ctx context.Context, userID uuid.UUID) (Credential, error)
	DeleteCredential(ctx context.Context, userID uuid.UUID) error
	PutSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, sessionID string) (Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteSessionsForUser(ctx context.Context, userID uuid.UUID) error
}

// UserLookup resolves users by ID or screen name.
type UserLookup interface {
	Get(ctx context.Context, userID uuid.UUID) (users.User, error)
	FindByScreenName(ctx context.Context, screenName string) (users.User, error)
}

// Config configures session tokens.
type Config struct {
	TokenSecret []byte
	TokenTTL    time.Duration
}

// Service authenticates users.
type Service struct {
	store    Store
	users    UserLookup
	signals  Signals
	tokens   *tokenCodec
	now      func() time.Time
	newToken func() (string, error)
}

// NewService builds an authn service.
func NewService(store Store, userLookup UserLookup, signals Signals, cfg Config) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("authn store is required")
	}
	if userLookup == nil {
		return nil, fmt.Errorf("user lookup is required")
	}
	tokens, err := newTokenCodec(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &Service{
		store:    store,
		users:    userLookup,
		signals:  signals,
		tokens:   tokens,
		now:      time.Now,
		newToken: id.NewToken,
	}, nil
}
