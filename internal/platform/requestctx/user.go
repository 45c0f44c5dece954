// Package requestctx carries the authenticated admin through a request.
package requestctx

import (
	"context"

	"github.com/google/uuid"
)

// User identifies the admin performing a request. It becomes the initiator
// of every event a handler publishes.
type User struct {
	ID         uuid.UUID
	ScreenName string
}

// IsZero reports whether no user is set.
func (u User) IsZero() bool {
	return u.ID == uuid.Nil
}

type userContextKey struct{}

// WithUser stores the authenticated user in context.
func WithUser(ctx context.Context, user User) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the authenticated user stored in context.
func UserFromContext(ctx context.Context) (User, bool) {
	if ctx == nil {
		return User{}, false
	}
	user, ok := ctx.Value(userContextKey{}).(User)
	if !ok || user.IsZero() {
		return User{}, false
	}
	return user, true
}

// UserIDFromContext returns the authenticated user's ID as a string, or "".
func UserIDFromContext(ctx context.Context) string {
	user, ok := UserFromContext(ctx)
	if !ok {
		return ""
	}
	return user.ID.String()
}
