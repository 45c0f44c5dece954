package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/services/board/dbmodel"
	"github.com/louisbranch/lanparty/internal/storage"
)

// PutBoardCategory inserts a category. A slug taken within the board is
// storage.ErrConflict.
func (s *Store) PutBoardCategory(ctx context.Context, category dbmodel.Category) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	var lastPosting sql.NullInt64
	if category.LastPostingUpdatedAt != nil {
		lastPosting = sql.NullInt64{Int64: toMillis(*category.LastPostingUpdatedAt), Valid: true}
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO board_categories (id, board_id, slug, title, last_posting_updated_at)
VALUES (?, ?, ?, ?, ?)
`, category.ID, category.BoardID, category.Slug, category.Title, lastPosting)
	return putErr("board category", err)
}

// GetBoardCategory returns one category.
func (s *Store) GetBoardCategory(ctx context.Context, categoryID uuid.UUID) (dbmodel.Category, error) {
	if err := s.ready(ctx); err != nil {
		return dbmodel.Category{}, err
	}
	var (
		category    dbmodel.Category
		lastPosting sql.NullInt64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, board_id, slug, title, last_posting_updated_at FROM board_categories WHERE id = ?
`, categoryID).Scan(&category.ID, &category.BoardID, &category.Slug, &category.Title, &lastPosting)
	if errors.Is(err, sql.ErrNoRows) {
		return dbmodel.Category{}, storage.ErrNotFound
	}
	if err != nil {
		return dbmodel.Category{}, fmt.Errorf("get board category: %w", err)
	}
	if lastPosting.Valid {
		at := fromMillis(lastPosting.Int64)
		category.LastPostingUpdatedAt = &at
	}
	return category, nil
}

// PutBoardTopic inserts a topic.
func (s *Store) PutBoardTopic(ctx context.Context, topic dbmodel.Topic) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO board_topics (id, category_id, creator_id, title, created_at, last_updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`, topic.ID, topic.CategoryID, topic.CreatorID, topic.Title, toMillis(topic.CreatedAt), toMillis(topic.LastUpdatedAt))
	return putErr("board topic", err)
}

// GetBoardTopic returns one topic.
func (s *Store) GetBoardTopic(ctx context.Context, topicID uuid.UUID) (dbmodel.Topic, error) {
	if err := s.ready(ctx); err != nil {
		return dbmodel.Topic{}, err
	}
	var (
		topic                    dbmodel.Topic
		createdAt, lastUpdatedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, category_id, creator_id, title, created_at, last_updated_at FROM board_topics WHERE id = ?
`, topicID).Scan(&topic.ID, &topic.CategoryID, &topic.CreatorID, &topic.Title, &createdAt, &lastUpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return dbmodel.Topic{}, storage.ErrNotFound
	}
	if err != nil {
		return dbmodel.Topic{}, fmt.Errorf("get board topic: %w", err)
	}
	topic.CreatedAt = fromMillis(createdAt)
	topic.LastUpdatedAt = fromMillis(lastUpdatedAt)
	return topic, nil
}

// TouchBoardTopic sets the last update of the topic and of its category.
func (s *Store) TouchBoardTopic(ctx context.Context, topicID uuid.UUID, at time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start touch transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx, `UPDATE board_topics SET last_updated_at = ? WHERE id = ?`, toMillis(at), topicID)
	if err != nil {
		return fmt.Errorf("touch board topic: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
UPDATE board_categories SET last_posting_updated_at = ?
WHERE id = (SELECT category_id FROM board_topics WHERE id = ?)
`, toMillis(at), topicID); err != nil {
		return fmt.Errorf("touch board category: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit touch: %w", err)
	}
	return nil
}

// PutAccessGrant stores a grant, ignoring an existing (board, user) pair.
func (s *Store) PutAccessGrant(ctx context.Context, grant dbmodel.AccessGrant) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO board_access_grants (id, board_id, user_id, created_at) VALUES (?, ?, ?, ?)
ON CONFLICT(board_id, user_id) DO NOTHING
`, grant.ID, grant.BoardID, grant.UserID, toMillis(grant.CreatedAt))
	return putErr("access grant", err)
}

// DeleteAccessGrant removes a grant.
func (s *Store) DeleteAccessGrant(ctx context.Context, boardID string, userID uuid.UUID) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `
DELETE FROM board_access_grants WHERE board_id = ? AND user_id = ?
`, boardID, userID)
	if err != nil {
		return fmt.Errorf("delete access grant: %w", err)
	}
	return requireAffected(result)
}

// FindAccessGrant returns the user's grant for the board.
func (s *Store) FindAccessGrant(ctx context.Context, boardID string, userID uuid.UUID) (dbmodel.AccessGrant, error) {
	if err := s.ready(ctx); err != nil {
		return dbmodel.AccessGrant{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, board_id, user_id, created_at FROM board_access_grants WHERE board_id = ? AND user_id = ?
`, boardID, userID)
	grant, err := scanAccessGrant(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return dbmodel.AccessGrant{}, storage.ErrNotFound
	}
	if err != nil {
		return dbmodel.AccessGrant{}, fmt.Errorf("find access grant: %w", err)
	}
	return grant, nil
}

// ListAccessGrants returns the board's grants, oldest first.
func (s *Store) ListAccessGrants(ctx context.Context, boardID string) ([]dbmodel.AccessGrant, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, board_id, user_id, created_at FROM board_access_grants
WHERE board_id = ?
ORDER BY created_at ASC, rowid ASC
`, boardID)
	if err != nil {
		return nil, fmt.Errorf("list access grants: %w", err)
	}
	defer rows.Close()

	var grants []dbmodel.AccessGrant
	for rows.Next() {
		grant, err := scanAccessGrant(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan access grant: %w", err)
		}
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate access grants: %w", err)
	}
	return grants, nil
}

func scanAccessGrant(scan func(dest ...any) error) (dbmodel.AccessGrant, error) {
	var (
		grant     dbmodel.AccessGrant
		createdAt int64
	)
	if err := scan(&grant.ID, &grant.BoardID, &grant.UserID, &createdAt); err != nil {
		return dbmodel.AccessGrant{}, err
	}
	grant.CreatedAt = fromMillis(createdAt)
	return grant, nil
}

// UpsertLastCategoryView records when the user last viewed the category.
func (s *Store) UpsertLastCategoryView(ctx context.Context, view dbmodel.LastCategoryView) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO board_last_category_views (user_id, category_id, occurred_at) VALUES (?, ?, ?)
ON CONFLICT(user_id, category_id) DO UPDATE SET occurred_at = excluded.occurred_at
`, view.UserID, view.CategoryID, toMillis(view.OccurredAt))
	if err != nil {
		return fmt.Errorf("upsert last category view: %w", err)
	}
	return nil
}

// FindLastCategoryView returns the user's last view of the category.
func (s *Store) FindLastCategoryView(ctx context.Context, userID, categoryID uuid.UUID) (dbmodel.LastCategoryView, error) {
	if err := s.ready(ctx); err != nil {
		return dbmodel.LastCategoryView{}, err
	}
	var (
		view       dbmodel.LastCategoryView
		occurredAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT user_id, category_id, occurred_at FROM board_last_category_views
WHERE user_id = ? AND category_id = ?
`, userID, categoryID).Scan(&view.UserID, &view.CategoryID, &occurredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return dbmodel.LastCategoryView{}, storage.ErrNotFound
	}
	if err != nil {
		return dbmodel.LastCategoryView{}, fmt.Errorf("find last category view: %w", err)
	}
	view.OccurredAt = fromMillis(occurredAt)
	return view, nil
}

// DeleteLastCategoryViews removes every view of the category.
func (s *Store) DeleteLastCategoryViews(ctx context.Context, categoryID uuid.UUID) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM board_last_category_views WHERE category_id = ?`, categoryID); err != nil {
		return fmt.Errorf("delete last category views: %w", err)
	}
	return nil
}

// UpsertLastTopicViews records topic views in one transaction.
func (s *Store) UpsertLastTopicViews(ctx context.Context, views []dbmodel.LastTopicView) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start topic view transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	for _, view := range views {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO board_last_topic_views (user_id, topic_id, occurred_at) VALUES (?, ?, ?)
ON CONFLICT(user_id, topic_id) DO UPDATE SET occurred_at = excluded.occurred_at
`, view.UserID, view.TopicID, toMillis(view.OccurredAt)); err != nil {
			return fmt.Errorf("upsert last topic view: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit topic views: %w", err)
	}
	return nil
}

// FindLastTopicView returns the user's last view of the topic.
func (s *Store) FindLastTopicView(ctx context.Context, userID, topicID uuid.UUID) (dbmodel.LastTopicView, error) {
	if err := s.ready(ctx); err != nil {
		return dbmodel.LastTopicView{}, err
	}
	var (
		view       dbmodel.LastTopicView
		occurredAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT user_id, topic_id, occurred_at FROM board_last_topic_views
WHERE user_id = ? AND topic_id = ?
`, userID, topicID).Scan(&view.UserID, &view.TopicID, &occurredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return dbmodel.LastTopicView{}, storage.ErrNotFound
	}
	if err != nil {
		return dbmodel.LastTopicView{}, fmt.Errorf("find last topic view: %w", err)
	}
	view.OccurredAt = fromMillis(occurredAt)
	return view, nil
}

// DeleteLastTopicViews removes every view of the topic.
func (s *Store) DeleteLastTopicViews(ctx context.Context, topicID uuid.UUID) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM board_last_topic_views WHERE topic_id = ?`, topicID); err != nil {
		return fmt.Errorf("delete last topic views: %w", err)
	}
	return nil
}

// ListTopicIDsInCategory returns the IDs of the category's topics.
func (s *Store) ListTopicIDsInCategory(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id FROM board_topics WHERE category_id = ? ORDER BY created_at`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list topic ids: %w", err)
	}
	return collectUUIDs(rows)
}
