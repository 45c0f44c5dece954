package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/services/tourney"
	"github.com/louisbranch/lanparty/internal/services/useravatar"
	"github.com/louisbranch/lanparty/internal/services/userbadge"
	"github.com/louisbranch/lanparty/internal/storage"
)

// PutMatchComment inserts a comment.
func (s *Store) PutMatchComment(ctx context.Context, comment tourney.MatchComment) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO match_comments (id, match_id, creator_id, body, hidden, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`, comment.ID, comment.MatchID, comment.CreatorID, comment.Body, boolToInt(comment.Hidden), toMillis(comment.CreatedAt))
	return putErr("match comment", err)
}

// GetMatchComment returns one comment.
func (s *Store) GetMatchComment(ctx context.Context, commentID uuid.UUID) (tourney.MatchComment, error) {
	if err := s.ready(ctx); err != nil {
		return tourney.MatchComment{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, match_id, creator_id, body, hidden, created_at FROM match_comments WHERE id = ?
`, commentID)
	comment, err := scanMatchComment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return tourney.MatchComment{}, storage.ErrNotFound
	}
	if err != nil {
		return tourney.MatchComment{}, fmt.Errorf("get match comment: %w", err)
	}
	return comment, nil
}

// ListMatchComments returns the match's comments, oldest first.
func (s *Store) ListMatchComments(ctx context.Context, matchID uuid.UUID) ([]tourney.MatchComment, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, match_id, creator_id, body, hidden, created_at
FROM match_comments
WHERE match_id = ?
ORDER BY created_at ASC, rowid ASC
`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match comments: %w", err)
	}
	defer rows.Close()

	var comments []tourney.MatchComment
	for rows.Next() {
		comment, err := scanMatchComment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan match comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate match comments: %w", err)
	}
	return comments, nil
}

// SetMatchCommentHidden updates the comment's visibility.
func (s *Store) SetMatchCommentHidden(ctx context.Context, commentID uuid.UUID, hidden bool) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `UPDATE match_comments SET hidden = ? WHERE id = ?`, boolToInt(hidden), commentID)
	if err != nil {
		return fmt.Errorf("set match comment hidden: %w", err)
	}
	return requireAffected(result)
}

func scanMatchComment(scan func(dest ...any) error) (tourney.MatchComment, error) {
	var (
		comment   tourney.MatchComment
		createdAt int64
	)
	if err := scan(&comment.ID, &comment.MatchID, &comment.CreatorID, &comment.Body, &comment.Hidden, &createdAt); err != nil {
		return tourney.MatchComment{}, err
	}
	comment.CreatedAt = fromMillis(createdAt)
	return comment, nil
}

// PutAvatar inserts an avatar image record.
func (s *Store) PutAvatar(ctx context.Context, avatar useravatar.Avatar) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO avatars (id, creator_id, image_type, created_at) VALUES (?, ?, ?, ?)
`, avatar.ID, avatar.CreatorID, string(avatar.ImageType), toMillis(avatar.CreatedAt))
	return putErr("avatar", err)
}

// SelectAvatar makes avatarID the user's avatar.
func (s *Store) SelectAvatar(ctx context.Context, userID, avatarID uuid.UUID) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO user_avatar_selections (user_id, avatar_id) VALUES (?, ?)
ON CONFLICT(user_id) DO UPDATE SET avatar_id = excluded.avatar_id
`, userID, avatarID)
	if err != nil {
		return fmt.Errorf("select avatar: %w", err)
	}
	return nil
}

// UnselectAvatar clears the user's avatar selection, if any.
func (s *Store) UnselectAvatar(ctx context.Context, userID uuid.UUID) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM user_avatar_selections WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("unselect avatar: %w", err)
	}
	return nil
}

// GetSelectedAvatar returns the user's selected avatar.
func (s *Store) GetSelectedAvatar(ctx context.Context, userID uuid.UUID) (useravatar.Avatar, error) {
	if err := s.ready(ctx); err != nil {
		return useravatar.Avatar{}, err
	}
	var (
		avatar    useravatar.Avatar
		imageType string
		createdAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT a.id, a.creator_id, a.image_type, a.created_at
FROM user_avatar_selections sel
JOIN avatars a ON a.id = sel.avatar_id
WHERE sel.user_id = ?
`, userID).Scan(&avatar.ID, &avatar.CreatorID, &imageType, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return useravatar.Avatar{}, storage.ErrNotFound
	}
	if err != nil {
		return useravatar.Avatar{}, fmt.Errorf("get selected avatar: %w", err)
	}
	avatar.ImageType = useravatar.ImageType(imageType)
	avatar.CreatedAt = fromMillis(createdAt)
	return avatar, nil
}

// PutBadge inserts a badge. A taken slug is storage.ErrConflict.
func (s *Store) PutBadge(ctx context.Context, badge userbadge.Badge) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO badges (id, slug, label, description, featured) VALUES (?, ?, ?, ?, ?)
`, badge.ID, badge.Slug, badge.Label, badge.Description, boolToInt(badge.Featured))
	return putErr("badge", err)
}

// GetBadge returns one badge.
func (s *Store) GetBadge(ctx context.Context, badgeID uuid.UUID) (userbadge.Badge, error) {
	if err := s.ready(ctx); err != nil {
		return userbadge.Badge{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, slug, label, description, featured FROM badges WHERE id = ?
`, badgeID)
	var badge userbadge.Badge
	err := row.Scan(&badge.ID, &badge.Slug, &badge.Label, &badge.Description, &badge.Featured)
	if errors.Is(err, sql.ErrNoRows) {
		return userbadge.Badge{}, storage.ErrNotFound
	}
	if err != nil {
		return userbadge.Badge{}, fmt.Errorf("get badge: %w", err)
	}
	return badge, nil
}

// ListBadges returns every badge ordered by label.
func (s *Store) ListBadges(ctx context.Context) ([]userbadge.Badge, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, slug, label, description, featured FROM badges ORDER BY label, slug
`)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	var badges []userbadge.Badge
	for rows.Next() {
		var badge userbadge.Badge
		if err := rows.Scan(&badge.ID, &badge.Slug, &badge.Label, &badge.Description, &badge.Featured); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		badges = append(badges, badge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate badges: %w", err)
	}
	return badges, nil
}

// PutAwarding inserts a badge awarding.
func (s *Store) PutAwarding(ctx context.Context, awarding userbadge.Awarding) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO badge_awardings (id, badge_id, user_id, awarded_at) VALUES (?, ?, ?, ?)
`, awarding.ID, awarding.BadgeID, awarding.UserID, toMillis(awarding.AwardedAt))
	return putErr("badge awarding", err)
}

// CountAwardings counts awardings per badge, including badges never
// awarded.
func (s *Store) CountAwardings(ctx context.Context) (map[uuid.UUID]int, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT b.id, COUNT(a.id)
FROM badges b
LEFT JOIN badge_awardings a ON a.badge_id = b.id
GROUP BY b.id
`)
	if err != nil {
		return nil, fmt.Errorf("count awardings: %w", err)
	}
	return collectCounts(rows)
}

// ListBadgesAwardedToUser returns the user's badges, most recently awarded
// first.
func (s *Store) ListBadgesAwardedToUser(ctx context.Context, userID uuid.UUID) ([]userbadge.AwardedBadge, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT b.id, b.slug, b.label, b.description, b.featured, a.awarded_at
FROM badge_awardings a
JOIN badges b ON b.id = a.badge_id
WHERE a.user_id = ?
ORDER BY a.awarded_at DESC, a.rowid DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list awarded badges: %w", err)
	}
	defer rows.Close()

	var awarded []userbadge.AwardedBadge
	for rows.Next() {
		var (
			badge     userbadge.AwardedBadge
			awardedAt int64
		)
		if err := rows.Scan(&badge.ID, &badge.Slug, &badge.Label, &badge.Description, &badge.Featured, &awardedAt); err != nil {
			return nil, fmt.Errorf("scan awarded badge: %w", err)
		}
		badge.AwardedAt = fromMillis(awardedAt)
		awarded = append(awarded, badge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate awarded badges: %w", err)
	}
	return awarded, nil
}
