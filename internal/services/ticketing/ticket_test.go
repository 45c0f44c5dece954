package ticketing

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/services/users"
)

func TestCheckInUserRejections(t *testing.T) {
	ticketUser := users.User{ID: uuid.New(), ScreenName: "Player"}
	initiator := users.User{ID: uuid.New(), ScreenName: "Orga"}
	valid := Ticket{
		ID:       uuid.New(),
		Code:     "GTFIN",
		PartyID:  "lp-2026",
		UsedByID: uuid.NullUUID{UUID: ticketUser.ID, Valid: true},
	}

	tests := []struct {
		name    string
		partyID string
		ticket  func(Ticket) Ticket
		user    func(users.User) users.User
		want    error
	}{
		{
			name:    "different party",
			partyID: "lp-2025",
			want:    ErrTicketBelongsToDifferentParty,
		},
		{
			name:   "lacks user",
			ticket: func(tk Ticket) Ticket { tk.UsedByID = uuid.NullUUID{}; return tk },
			want:   ErrTicketLacksUser,
		},
		{
			name:   "revoked",
			ticket: func(tk Ticket) Ticket { tk.Revoked = true; return tk },
			want:   ErrTicketIsRevoked,
		},
		{
			name:   "already checked in",
			ticket: func(tk Ticket) Ticket { tk.UserCheckedIn = true; return tk },
			want:   ErrUserAlreadyCheckedIn,
		},
		{
			name: "deleted account",
			user: func(u users.User) users.User { u.Deleted = true; u.Suspended = true; return u },
			want: ErrUserAccountDeleted,
		},
		{
			name: "suspended account",
			user: func(u users.User) users.User { u.Suspended = true; return u },
			want: ErrUserAccountSuspended,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			partyID := "lp-2026"
			if tc.partyID != "" {
				partyID = tc.partyID
			}
			ticket := valid
			if tc.ticket != nil {
				ticket = tc.ticket(ticket)
			}
			u := ticketUser
			if tc.user != nil {
				u = tc.user(u)
			}
			_, _, _, err := checkInUser(partyID, ticket, u, initiator, time.Now(), uuid.NewRandom)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCheckInUserBuildsRecords(t *testing.T) {
	ticketUser := users.User{ID: uuid.New(), ScreenName: "Player"}
	initiator := users.User{ID: uuid.New(), ScreenName: "Orga"}
	seatID := uuid.New()
	ticket := Ticket{
		ID:             uuid.New(),
		Code:           "GTFIN",
		PartyID:        "lp-2026",
		UsedByID:       uuid.NullUUID{UUID: ticketUser.ID, Valid: true},
		OccupiedSeatID: uuid.NullUUID{UUID: seatID, Valid: true},
	}
	now := time.Date(2026, 8, 14, 18, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

	checkIn, event, logEntry, err := checkInUser("lp-2026", ticket, ticketUser, initiator, now, uuid.NewRandom)
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	if checkIn.TicketID != ticket.ID || checkIn.InitiatorID != initiator.ID || checkIn.OccurredAt.Location() != time.UTC {
		t.Fatalf("check-in = %+v", checkIn)
	}
	if event.TicketCode != "GTFIN" || event.UserScreenName != "Player" || event.InitiatorName() != "Orga" || event.OccupiedSeatID.UUID != seatID {
		t.Fatalf("event = %+v", event)
	}
	if logEntry.EventType != LogEventUserCheckedIn || logEntry.Data["checked_in_user_id"] != ticketUser.ID.String() || logEntry.Data["initiator_id"] != initiator.ID.String() {
		t.Fatalf("log entry = %+v", logEntry)
	}
	if checkIn.ID == logEntry.ID {
		t.Fatal("expected distinct ids")
	}
}

func TestTicketCode(t *testing.T) {
	ticketID := uuid.MustParse("a1b2c3d4-0000-4000-8000-000000000000")
	if got := ticketCode(ticketID); got != "A1B2C" {
		t.Fatalf("ticketCode = %q", got)
	}
}
