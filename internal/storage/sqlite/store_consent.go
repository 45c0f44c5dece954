package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/services/consent"
)

// PutConsentSubject inserts a subject. A taken name is
// storage.ErrConflict.
func (s *Store) PutConsentSubject(ctx context.Context, subject consent.Subject) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO consent_subjects (id, name, title, checkbox_label, checkbox_link_target)
VALUES (?, ?, ?, ?, ?)
`, subject.ID, subject.Name, subject.Title, subject.CheckboxLabel, nullString(subject.CheckboxLinkTarget))
	return putErr("consent subject", err)
}

// ListConsentSubjects returns every subject ordered by name.
func (s *Store) ListConsentSubjects(ctx context.Context) ([]consent.Subject, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, title, checkbox_label, checkbox_link_target FROM consent_subjects ORDER BY name
`)
	if err != nil {
		return nil, fmt.Errorf("list consent subjects: %w", err)
	}
	return collectSubjects(rows)
}

// GetConsentSubjectsByID returns the subjects among ids that exist.
func (s *Store) GetConsentSubjectsByID(ctx context.Context, ids []uuid.UUID) ([]consent.Subject, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, subjectID := range ids {
		args[i] = subjectID
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, title, checkbox_label, checkbox_link_target
FROM consent_subjects
WHERE id IN (`+placeholders(len(ids))+`)
ORDER BY name
`, args...)
	if err != nil {
		return nil, fmt.Errorf("get consent subjects: %w", err)
	}
	return collectSubjects(rows)
}

func collectSubjects(rows *sql.Rows) ([]consent.Subject, error) {
	defer rows.Close()
	var subjects []consent.Subject
	for rows.Next() {
		var (
			subject    consent.Subject
			linkTarget sql.NullString
		)
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.Title, &subject.CheckboxLabel, &linkTarget); err != nil {
			return nil, fmt.Errorf("scan consent subject: %w", err)
		}
		subject.CheckboxLinkTarget = linkTarget.String
		subjects = append(subjects, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consent subjects: %w", err)
	}
	return subjects, nil
}

// PutConsents stores consents in one transaction. A consent already
// expressed keeps its original time.
func (s *Store) PutConsents(ctx context.Context, consents []consent.Consent) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start consent transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	for _, c := range consents {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO consents (user_id, subject_id, expressed_at) VALUES (?, ?, ?)
ON CONFLICT(user_id, subject_id) DO NOTHING
`, c.UserID, c.SubjectID, toMillis(c.ExpressedAt)); err != nil {
			return fmt.Errorf("insert consent: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit consents: %w", err)
	}
	return nil
}

// CountConsentsBySubject counts consents per subject, including subjects
// without any.
func (s *Store) CountConsentsBySubject(ctx context.Context) (map[uuid.UUID]int, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT cs.id, COUNT(c.user_id)
FROM consent_subjects cs
LEFT JOIN consents c ON c.subject_id = cs.id
GROUP BY cs.id
`)
	if err != nil {
		return nil, fmt.Errorf("count consents: %w", err)
	}
	return collectCounts(rows)
}

// ListConsentedSubjectIDs returns the subjects the user consented to.
func (s *Store) ListConsentedSubjectIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT subject_id FROM consents WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list consented subjects: %w", err)
	}
	return collectUUIDs(rows)
}
