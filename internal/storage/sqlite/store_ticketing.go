package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/services/ticketing"
	"github.com/louisbranch/lanparty/internal/storage"
)

// PutTicket inserts or replaces a ticket.
func (s *Store) PutTicket(ctx context.Context, ticket ticketing.Ticket) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO tickets (id, code, party_id, owned_by_id, used_by_id, occupied_seat_id, user_checked_in, revoked, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	code = excluded.code,
	party_id = excluded.party_id,
	owned_by_id = excluded.owned_by_id,
	used_by_id = excluded.used_by_id,
	occupied_seat_id = excluded.occupied_seat_id,
	user_checked_in = excluded.user_checked_in,
	revoked = excluded.revoked
`,
		ticket.ID,
		ticket.Code,
		ticket.PartyID,
		ticket.OwnedByID,
		ticket.UsedByID,
		ticket.OccupiedSeatID,
		boolToInt(ticket.UserCheckedIn),
		boolToInt(ticket.Revoked),
		toMillis(ticket.CreatedAt),
	)
	return putErr("ticket", err)
}

// GetTicket returns one ticket.
func (s *Store) GetTicket(ctx context.Context, ticketID uuid.UUID) (ticketing.Ticket, error) {
	if err := s.ready(ctx); err != nil {
		return ticketing.Ticket{}, err
	}
	var (
		ticket    ticketing.Ticket
		createdAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, code, party_id, owned_by_id, used_by_id, occupied_seat_id, user_checked_in, revoked, created_at
FROM tickets WHERE id = ?
`, ticketID).Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.PartyID,
		&ticket.OwnedByID,
		&ticket.UsedByID,
		&ticket.OccupiedSeatID,
		&ticket.UserCheckedIn,
		&ticket.Revoked,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ticketing.Ticket{}, storage.ErrNotFound
	}
	if err != nil {
		return ticketing.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	ticket.CreatedAt = fromMillis(createdAt)
	return ticket, nil
}

// RecordCheckIn marks the ticket checked in and stores the check-in and
// its log entry in one transaction. The update only applies to a ticket
// that is neither checked in nor revoked, so of two racing check-ins only
// one succeeds; the other gets ticketing.ErrUserAlreadyCheckedIn.
func (s *Store) RecordCheckIn(ctx context.Context, checkIn ticketing.CheckIn, logEntry ticketing.LogEntry) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start check-in transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx, `
UPDATE tickets SET user_checked_in = 1
WHERE id = ? AND user_checked_in = 0 AND revoked = 0
`, checkIn.TicketID)
	if err != nil {
		return fmt.Errorf("mark ticket checked in: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return checkInConflict(ctx, tx, checkIn.TicketID, err)
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO ticket_checkins (id, occurred_at, ticket_id, initiator_id) VALUES (?, ?, ?, ?)
`, checkIn.ID, toMillis(checkIn.OccurredAt), checkIn.TicketID, checkIn.InitiatorID); err != nil {
		return fmt.Errorf("insert check-in: %w", err)
	}
	if err := insertTicketLogEntry(ctx, tx, logEntry); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit check-in: %w", err)
	}
	return nil
}

// RecordCheckInRevert clears the checked-in flag and stores the log entry
// in one transaction.
func (s *Store) RecordCheckInRevert(ctx context.Context, ticketID uuid.UUID, logEntry ticketing.LogEntry) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start check-in revert transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx, `UPDATE tickets SET user_checked_in = 0 WHERE id = ? AND user_checked_in = 1`, ticketID)
	if err != nil {
		return fmt.Errorf("clear ticket check-in: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return checkInConflict(ctx, tx, ticketID, err)
	}
	if err := insertTicketLogEntry(ctx, tx, logEntry); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit check-in revert: %w", err)
	}
	return nil
}

// checkInConflict explains why a guarded check-in update touched no row.
func checkInConflict(ctx context.Context, tx *sql.Tx, ticketID uuid.UUID, notFound error) error {
	var checkedIn, revoked bool
	err := tx.QueryRowContext(ctx, `SELECT user_checked_in, revoked FROM tickets WHERE id = ?`, ticketID).Scan(&checkedIn, &revoked)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return notFound
	case err != nil:
		return fmt.Errorf("read ticket state: %w", err)
	case revoked:
		return ticketing.ErrTicketIsRevoked
	case checkedIn:
		return ticketing.ErrUserAlreadyCheckedIn
	default:
		return ticketing.ErrUserNotCheckedIn
	}
}

func insertTicketLogEntry(ctx context.Context, exec execContexter, entry ticketing.LogEntry) error {
	data := entry.Data
	if data == nil {
		data = map[string]string{}
	}
	dataJSON, err := encodeJSON(data)
	if err != nil {
		return fmt.Errorf("encode log entry data: %w", err)
	}
	if _, err := exec.ExecContext(ctx, `
INSERT INTO ticket_log_entries (id, occurred_at, event_type, ticket_id, data_json) VALUES (?, ?, ?, ?, ?)
`, entry.ID, toMillis(entry.OccurredAt), entry.EventType, entry.TicketID, dataJSON); err != nil {
		return fmt.Errorf("insert ticket log entry: %w", err)
	}
	return nil
}

// ListTicketLogEntries returns the ticket's log, oldest first.
func (s *Store) ListTicketLogEntries(ctx context.Context, ticketID uuid.UUID) ([]ticketing.LogEntry, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, occurred_at, event_type, ticket_id, data_json
FROM ticket_log_entries
WHERE ticket_id = ?
ORDER BY occurred_at ASC, rowid ASC
`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list ticket log entries: %w", err)
	}
	defer rows.Close()

	var entries []ticketing.LogEntry
	for rows.Next() {
		var (
			entry      ticketing.LogEntry
			occurredAt int64
			dataJSON   string
		)
		if err := rows.Scan(&entry.ID, &occurredAt, &entry.EventType, &entry.TicketID, &dataJSON); err != nil {
			return nil, fmt.Errorf("scan ticket log entry: %w", err)
		}
		if err := json.Unmarshal([]byte(dataJSON), &entry.Data); err != nil {
			return nil, fmt.Errorf("decode ticket log entry data: %w", err)
		}
		entry.OccurredAt = fromMillis(occurredAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticket log entries: %w", err)
	}
	return entries, nil
}
