package ticketing

import (
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/events"
	apperrors "github.com/louisbranch/lanparty/internal/platform/errors"
	"github.com/louisbranch/lanparty/internal/services/users"
)

// Log entry event types.
const (
	LogEventUserCheckedIn       = "user-checked-in"
	LogEventUserCheckInReverted = "user-check-in-reverted"
	logDataCheckedInUserID      = "checked_in_user_id"
	logDataInitiatorID          = "initiator_id"
)

var (
	ErrTicketNotFound                = apperrors.New(apperrors.CodeTicketNotFound, "ticket not found")
	ErrTicketBelongsToDifferentParty = apperrors.New(apperrors.CodeTicketBelongsToDifferentParty, "ticket belongs to a different party")
	ErrTicketLacksUser               = apperrors.New(apperrors.CodeTicketLacksUser, "ticket has no user assigned")
	ErrTicketIsRevoked               = apperrors.New(apperrors.CodeTicketIsRevoked, "ticket has been revoked")
	ErrUserAlreadyCheckedIn          = apperrors.New(apperrors.CodeUserAlreadyCheckedIn, "ticket user has already been checked in")
	ErrUserNotCheckedIn              = apperrors.New(apperrors.CodeUserNotCheckedIn, "ticket user has not been checked in")
	ErrUserAccountDeleted            = apperrors.New(apperrors.CodeUserAccountDeleted, "ticket user account has been deleted")
	ErrUserAccountSuspended          = apperrors.New(apperrors.CodeUserAccountSuspended, "ticket user account is suspended")
)

// Ticket is a party ticket.
type Ticket struct {
	ID             uuid.UUID
	Code           string
	PartyID        string
	OwnedByID      uuid.UUID
	UsedByID       uuid.NullUUID
	OccupiedSeatID uuid.NullUUID
	UserCheckedIn  bool
	Revoked        bool
	CreatedAt      time.Time
}

// CheckIn records who checked in a ticket's user and when.
type CheckIn struct {
	ID          uuid.UUID
	OccurredAt  time.Time
	TicketID    uuid.UUID
	InitiatorID uuid.UUID
}

// LogEntry is one entry of a ticket's history.
type LogEntry struct {
	ID         uuid.UUID
	OccurredAt time.Time
	EventType  string
	TicketID   uuid.UUID
	Data       map[string]string
}

// checkInUser decides whether ticketUser may be checked in with ticket at
// partyID. ticketUser must be the ticket's user when the ticket has one.
func checkInUser(partyID string, ticket Ticket, ticketUser users.User, initiator users.User, now time.Time, newID func() (uuid.UUID, error)) (CheckIn, events.TicketCheckedIn, LogEntry, error) {
	if ticket.PartyID != partyID {
		return CheckIn{}, events.TicketCheckedIn{}, LogEntry{}, ErrTicketBelongsToDifferentParty
	}
	if !ticket.UsedByID.Valid {
		return CheckIn{}, events.TicketCheckedIn{}, LogEntry{}, ErrTicketLacksUser
	}
	if ticket.Revoked {
		return CheckIn{}, events.TicketCheckedIn{}, LogEntry{}, ErrTicketIsRevoked
	}
	if ticket.UserCheckedIn {
		return CheckIn{}, events.TicketCheckedIn{}, LogEntry{}, ErrUserAlreadyCheckedIn
	}
	if ticketUser.Deleted {
		return CheckIn{}, events.TicketCheckedIn{}, LogEntry{}, ErrUserAccountDeleted
	}
	if ticketUser.Suspended {
		return CheckIn{}, events.TicketCheckedIn{}, LogEntry{}, ErrUserAccountSuspended
	}

	checkInID, err := newID()
	if err != nil {
		return CheckIn{}, events.TicketCheckedIn{}, LogEntry{}, err
	}
	logEntryID, err := newID()
	if err != nil {
		return CheckIn{}, events.TicketCheckedIn{}, LogEntry{}, err
	}
	now = now.UTC()

	checkIn := CheckIn{
		ID:          checkInID,
		OccurredAt:  now,
		TicketID:    ticket.ID,
		InitiatorID: initiator.ID,
	}
	event := events.TicketCheckedIn{
		Base:           events.NewBase(now, initiator.ID, initiator.ScreenName),
		TicketID:       ticket.ID,
		TicketCode:     ticket.Code,
		OccupiedSeatID: ticket.OccupiedSeatID,
		UserID:         ticketUser.ID,
		UserScreenName: ticketUser.ScreenName,
	}
	logEntry := LogEntry{
		ID:         logEntryID,
		OccurredAt: now,
		EventType:  LogEventUserCheckedIn,
		TicketID:   ticket.ID,
		Data: map[string]string{
			logDataCheckedInUserID: ticketUser.ID.String(),
			logDataInitiatorID:     initiator.ID.String(),
		},
	}
	return checkIn, event, logEntry, nil
}
