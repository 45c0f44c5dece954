package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/services/attendance"
)

// InsertArchivedAttendance stores an attendance, ignoring an existing
// (user, party) pair.
func (s *Store) InsertArchivedAttendance(ctx context.Context, a attendance.ArchivedAttendance) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO archived_attendances (user_id, party_id, created_at)
VALUES (?, ?, ?)
ON CONFLICT(user_id, party_id) DO NOTHING
`, a.UserID, a.PartyID, toMillis(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert archived attendance: %w", err)
	}
	return nil
}

// DeleteArchivedAttendance removes an attendance, if present.
func (s *Store) DeleteArchivedAttendance(ctx context.Context, userID uuid.UUID, partyID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx, `
DELETE FROM archived_attendances WHERE user_id = ? AND party_id = ?
`, userID, partyID)
	if err != nil {
		return fmt.Errorf("delete archived attendance: %w", err)
	}
	return nil
}

// ListArchivedAttendancePartyIDs returns the parties archived for the user.
func (s *Store) ListArchivedAttendancePartyIDs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT party_id FROM archived_attendances WHERE user_id = ? ORDER BY party_id
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list archived attendance parties: %w", err)
	}
	return collectStrings(rows)
}

// ListTicketPartyIDsForUser returns the parties the user holds a used,
// non-revoked ticket for.
func (s *Store) ListTicketPartyIDsForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT DISTINCT party_id FROM tickets
WHERE used_by_id = ? AND revoked = 0
ORDER BY party_id
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list ticket parties: %w", err)
	}
	return collectStrings(rows)
}

// ListArchivedAttendeeIDs returns the users archived for the party.
func (s *Store) ListArchivedAttendeeIDs(ctx context.Context, partyID string) ([]uuid.UUID, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT user_id FROM archived_attendances WHERE party_id = ?
`, partyID)
	if err != nil {
		return nil, fmt.Errorf("list archived attendees: %w", err)
	}
	return collectUUIDs(rows)
}

// ListTicketUserIDsForParty returns the users of non-revoked tickets of the
// party.
func (s *Store) ListTicketUserIDsForParty(ctx context.Context, partyID string) ([]uuid.UUID, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT DISTINCT used_by_id FROM tickets
WHERE party_id = ? AND used_by_id IS NOT NULL AND revoked = 0
`, partyID)
	if err != nil {
		return nil, fmt.Errorf("list ticket users: %w", err)
	}
	return collectUUIDs(rows)
}

// CountArchivedAttendances counts archived attendances per user within the
// given parties.
func (s *Store) CountArchivedAttendances(ctx context.Context, partyIDs []string) (map[uuid.UUID]int, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if len(partyIDs) == 0 {
		return map[uuid.UUID]int{}, nil
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT user_id, COUNT(*) FROM archived_attendances
WHERE party_id IN (`+placeholders(len(partyIDs))+`)
GROUP BY user_id
`, stringArgs(partyIDs)...)
	if err != nil {
		return nil, fmt.Errorf("count archived attendances: %w", err)
	}
	return collectCounts(rows)
}

// CountTicketAttendances counts, per ticket user, the distinct parties
// within partyIDs they used a non-revoked ticket for.
func (s *Store) CountTicketAttendances(ctx context.Context, partyIDs []string) (map[uuid.UUID]int, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if len(partyIDs) == 0 {
		return map[uuid.UUID]int{}, nil
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT used_by_id, COUNT(DISTINCT party_id) FROM tickets
WHERE used_by_id IS NOT NULL AND revoked = 0
	AND party_id IN (`+placeholders(len(partyIDs))+`)
GROUP BY used_by_id
`, stringArgs(partyIDs)...)
	if err != nil {
		return nil, fmt.Errorf("count ticket attendances: %w", err)
	}
	return collectCounts(rows)
}

func collectStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	var out []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func collectUUIDs(rows *sql.Rows) ([]uuid.UUID, error) {
	defer rows.Close()
	var out []uuid.UUID
	for rows.Next() {
		var value uuid.UUID
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func collectCounts(rows *sql.Rows) (map[uuid.UUID]int, error) {
	defer rows.Close()
	out := map[uuid.UUID]int{}
	for rows.Next() {
		var (
			key   uuid.UUID
			count int
		)
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out[key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
