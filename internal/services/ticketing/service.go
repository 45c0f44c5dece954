package ticketing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/events"
	"github.com/louisbranch/lanparty/internal/platform/id"
	"github.com/louisbranch/lanparty/internal/services/users"
	"github.com/louisbranch/lanparty/internal/storage"
)

// Store persists tickets and their check-ins.
type Store interface {
	PutTicket(ctx context.Context, ticket Ticket) error
	GetTicket(ctx context.Context, ticketID uuid.UUID) (Ticket, error)
	// RecordCheckIn marks the ticket's user as checked in and stores the
	// check-in and log entry atomically.
	RecordCheckIn(ctx context.Context, checkIn CheckIn, logEntry LogEntry) error
	// RecordCheckInRevert clears the checked-in flag and stores the log
	// entry atomically.
	RecordCheckInRevert(ctx context.Context, ticketID uuid.UUID, logEntry LogEntry) error
	ListTicketLogEntries(ctx context.Context, ticketID uuid.UUID) ([]LogEntry, error)
}

// UserGetter resolves users.
type UserGetter interface {
	Get(ctx context.Context, userID uuid.UUID) (users.User, error)
}

// Service checks in ticket users.
type Service struct {
	store   Store
	users   UserGetter
	signals Signals
	now     func() time.Time
	newID   func() (uuid.UUID, error)
}

// NewService builds a ticketing service.
func NewService(store Store, userGetter UserGetter, signals Signals) *Service {
	return &Service{
		store:   store,
		users:   userGetter,
		signals: signals,
		now:     time.Now,
		newID:   id.NewID,
	}
}

// CreateTicket issues a ticket for partyID owned by ownerID. The ticket
// code is derived from the ticket ID.
func (s *Service) CreateTicket(ctx context.Context, partyID string, ownerID uuid.UUID) (Ticket, error) {
	ticketID, err := s.newID()
	if err != nil {
		return Ticket{}, fmt.Errorf("generate ticket id: %w", err)
	}
	ticket := Ticket{
		ID:        ticketID,
		Code:      ticketCode(ticketID),
		PartyID:   strings.TrimSpace(partyID),
		OwnedByID: ownerID,
		UsedByID:  uuid.NullUUID{UUID: ownerID, Valid: true},
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.PutTicket(ctx, ticket); err != nil {
		return Ticket{}, fmt.Errorf("put ticket: %w", err)
	}
	return ticket, nil
}

// GetTicket returns one ticket.
func (s *Service) GetTicket(ctx context.Context, ticketID uuid.UUID) (Ticket, error) {
	ticket, err := s.store.GetTicket(ctx, ticketID)
	if errors.Is(err, storage.ErrNotFound) {
		return Ticket{}, ErrTicketNotFound
	}
	if err != nil {
		return Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	return ticket, nil
}

// CheckInUser checks in the user of the ticket at the party and publishes
// ticket-checked-in.
func (s *Service) CheckInUser(ctx context.Context, partyID string, ticketID uuid.UUID, initiatorID uuid.UUID) (events.TicketCheckedIn, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return events.TicketCheckedIn{}, err
	}
	initiator, err := s.users.Get(ctx, initiatorID)
	if err != nil {
		return events.TicketCheckedIn{}, fmt.Errorf("initiator: %w", err)
	}

	var ticketUser users.User
	if ticket.UsedByID.Valid {
		ticketUser, err = s.users.Get(ctx, ticket.UsedByID.UUID)
		if err != nil {
			return events.TicketCheckedIn{}, fmt.Errorf("ticket user: %w", err)
		}
	}

	checkIn, event, logEntry, err := checkInUser(strings.TrimSpace(partyID), ticket, ticketUser, initiator, s.now(), s.newID)
	if err != nil {
		return events.TicketCheckedIn{}, err
	}
	if err := s.store.RecordCheckIn(ctx, checkIn, logEntry); err != nil {
		return events.TicketCheckedIn{}, fmt.Errorf("record check-in: %w", err)
	}

	s.signals.TicketCheckedIn.Emit(ctx, s, event)
	return event, nil
}

// RevertCheckIn undoes the check-in of the ticket's user.
func (s *Service) RevertCheckIn(ctx context.Context, ticketID uuid.UUID, initiatorID uuid.UUID) error {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if !ticket.UserCheckedIn || !ticket.UsedByID.Valid {
		return ErrUserNotCheckedIn
	}
	logEntryID, err := s.newID()
	if err != nil {
		return fmt.Errorf("generate log entry id: %w", err)
	}
	logEntry := LogEntry{
		ID:         logEntryID,
		OccurredAt: s.now().UTC(),
		EventType:  LogEventUserCheckInReverted,
		TicketID:   ticket.ID,
		Data: map[string]string{
			logDataCheckedInUserID: ticket.UsedByID.UUID.String(),
			logDataInitiatorID:     initiatorID.String(),
		},
	}
	if err := s.store.RecordCheckInRevert(ctx, ticket.ID, logEntry); err != nil {
		return fmt.Errorf("record check-in revert: %w", err)
	}
	return nil
}

// GetLogEntries returns the ticket's history, oldest first.
func (s *Service) GetLogEntries(ctx context.Context, ticketID uuid.UUID) ([]LogEntry, error) {
	entries, err := s.store.ListTicketLogEntries(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list ticket log: %w", err)
	}
	return entries, nil
}

// ticketCode is the first five hex digits of the ID, upper-cased.
func ticketCode(ticketID uuid.UUID) string {
	return strings.ToUpper(strings.ReplaceAll(ticketID.String(), "-", "")[:5])
}
