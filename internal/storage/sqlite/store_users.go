package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/services/authn"
	"github.com/louisbranch/lanparty/internal/services/users"
	"github.com/louisbranch/lanparty/internal/storage"
)

const userColumns = `id, screen_name, admin, suspended, deleted, created_at`

// PutUser inserts a user. A taken screen name, compared case-insensitively,
// is storage.ErrConflict.
func (s *Store) PutUser(ctx context.Context, u users.User) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(u.ScreenName) == "" {
		return fmt.Errorf("screen name is required")
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO users (id, screen_name, admin, suspended, deleted, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`, u.ID, u.ScreenName, boolToInt(u.Admin), boolToInt(u.Suspended), boolToInt(u.Deleted), toMillis(u.CreatedAt))
	return putErr("user", err)
}

// GetUser returns one user by ID.
func (s *Store) GetUser(ctx context.Context, userID uuid.UUID) (users.User, error) {
	if err := s.ready(ctx); err != nil {
		return users.User{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID)
	return scanUser(row)
}

// GetUserByScreenName returns one user by case-insensitive screen name.
func (s *Store) GetUserByScreenName(ctx context.Context, screenName string) (users.User, error) {
	if err := s.ready(ctx); err != nil {
		return users.User{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE screen_name = ?`, strings.TrimSpace(screenName))
	return scanUser(row)
}

// UpdateUserStatus sets the suspended and deleted flags.
func (s *Store) UpdateUserStatus(ctx context.Context, userID uuid.UUID, suspended, deleted bool) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE users SET suspended = ?, deleted = ? WHERE id = ?
`, boolToInt(suspended), boolToInt(deleted), userID)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	return requireAffected(result)
}

func scanUser(row *sql.Row) (users.User, error) {
	var (
		u         users.User
		createdAt int64
	)
	err := row.Scan(&u.ID, &u.ScreenName, &u.Admin, &u.Suspended, &u.Deleted, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return users.User{}, storage.ErrNotFound
	}
	if err != nil {
		return users.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt = fromMillis(createdAt)
	return u, nil
}

// PutCredential inserts or replaces the user's credential.
func (s *Store) PutCredential(ctx context.Context, credential authn.Credential) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO credentials (user_id, password_hash, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
	password_hash = excluded.password_hash,
	updated_at = excluded.updated_at
`, credential.UserID, credential.PasswordHash, toMillis(credential.UpdatedAt))
	return putErr("credential", err)
}

// GetCredential returns the user's credential.
func (s *Store) GetCredential(ctx context.Context, userID uuid.UUID) (authn.Credential, error) {
	if err := s.ready(ctx); err != nil {
		return authn.Credential{}, err
	}
	var (
		credential authn.Credential
		updatedAt  int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT user_id, password_hash, updated_at FROM credentials WHERE user_id = ?
`, userID).Scan(&credential.UserID, &credential.PasswordHash, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return authn.Credential{}, storage.ErrNotFound
	}
	if err != nil {
		return authn.Credential{}, fmt.Errorf("get credential: %w", err)
	}
	credential.UpdatedAt = fromMillis(updatedAt)
	return credential, nil
}

// DeleteCredential removes the user's credential, if any.
func (s *Store) DeleteCredential(ctx context.Context, userID uuid.UUID) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM credentials WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

// PutSession inserts a login session.
func (s *Store) PutSession(ctx context.Context, session authn.Session) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("session id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO user_sessions (id, user_id, created_at) VALUES (?, ?, ?)
`, session.ID, session.UserID, toMillis(session.CreatedAt))
	return putErr("session", err)
}

// GetSession returns one session.
func (s *Store) GetSession(ctx context.Context, sessionID string) (authn.Session, error) {
	if err := s.ready(ctx); err != nil {
		return authn.Session{}, err
	}
	var (
		session   authn.Session
		createdAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, user_id, created_at FROM user_sessions WHERE id = ?
`, sessionID).Scan(&session.ID, &session.UserID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return authn.Session{}, storage.ErrNotFound
	}
	if err != nil {
		return authn.Session{}, fmt.Errorf("get session: %w", err)
	}
	session.CreatedAt = fromMillis(createdAt)
	return session, nil
}

// DeleteSession removes one session, if present.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM user_sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteSessionsForUser removes every session of the user.
func (s *Store) DeleteSessionsForUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM user_sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete sessions for user: %w", err)
	}
	return nil
}
