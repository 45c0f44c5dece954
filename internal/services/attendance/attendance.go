// Package attendance tracks which users attended which parties, from used
// tickets and from archived attendances recorded for parties that predate
// ticketing.
package attendance

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	apperrors "github.com/louisbranch/lanparty/internal/platform/errors"
	"github.com/louisbranch/lanparty/internal/platform/schema"
)

// TopAttendeesLimit caps the result of GetTopAttendees.
const TopAttendeesLimit = 50

// ArchivedAttendance records that a user attended a party.
type ArchivedAttendance struct {
	UserID    uuid.UUID
	PartyID   string
	CreatedAt time.Time
}

// AttendeeCount is a user with the number of parties attended.
type AttendeeCount struct {
	UserID uuid.UUID
	Count  int
}

// Store persists archived attendances and reads ticket usage.
type Store interface {
	// InsertArchivedAttendance ignores an existing (user, party) pair.
	InsertArchivedAttendance(ctx context.Context, attendance ArchivedAttendance) error
	DeleteArchivedAttendance(ctx context.Context, userID uuid.UUID, partyID string) error
	ListArchivedAttendancePartyIDs(ctx context.Context, userID uuid.UUID) ([]string, error)
	ListTicketPartyIDsForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
	ListArchivedAttendeeIDs(ctx context.Context, partyID string) ([]uuid.UUID, error)
	ListTicketUserIDsForParty(ctx context.Context, partyID string) ([]uuid.UUID, error)
	CountArchivedAttendances(ctx context.Context, partyIDs []string) (map[uuid.UUID]int, error)
	CountTicketAttendances(ctx context.Context, partyIDs []string) (map[uuid.UUID]int, error)
}

// CreateArchivedAttendanceRequest is the validated body of an archived
// attendance creation.
type CreateArchivedAttendanceRequest struct {
	UserID  uuid.UUID
	PartyID string
}

// CreateArchivedAttendanceRequestSchema declares the accepted JSON body.
var CreateArchivedAttendanceRequestSchema = schema.New(
	schema.Field{Name: "user_id", Type: schema.UUID, Required: true},
	schema.Field{Name: "party_id", Type: schema.String, Required: true},
)

// ParseCreateArchivedAttendanceRequest decodes and validates a JSON body.
// Failures are *schema.Errors. The party id is kept exactly as submitted.
func ParseCreateArchivedAttendanceRequest(r io.Reader) (CreateArchivedAttendanceRequest, error) {
	record, err := CreateArchivedAttendanceRequestSchema.DecodeJSON(r)
	if err != nil {
		return CreateArchivedAttendanceRequest{}, err
	}
	return CreateArchivedAttendanceRequest{
		UserID:  record.UUID("user_id"),
		PartyID: record.String("party_id"),
	}, nil
}

// Service manages attendance.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService builds an attendance service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// CreateArchivedAttendance records that the user attended the party.
// Recording the same pair again is not an error. The party id is stored
// verbatim but must not be empty.
func (s *Service) CreateArchivedAttendance(ctx context.Context, userID uuid.UUID, partyID string) error {
	if userID == uuid.Nil || partyID == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "user id and party id are required")
	}
	if err := s.store.InsertArchivedAttendance(ctx, ArchivedAttendance{
		UserID:    userID,
		PartyID:   partyID,
		CreatedAt: s.now().UTC(),
	}); err != nil {
		return fmt.Errorf("insert archived attendance: %w", err)
	}
	return nil
}

// DeleteArchivedAttendance removes an archived attendance, if any.
func (s *Service) DeleteArchivedAttendance(ctx context.Context, userID uuid.UUID, partyID string) error {
	if err := s.store.DeleteArchivedAttendance(ctx, userID, partyID); err != nil {
		return fmt.Errorf("delete archived attendance: %w", err)
	}
	return nil
}

// GetAttendedPartyIDs returns the parties the user attended, sorted.
func (s *Service) GetAttendedPartyIDs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	fromTickets, err := s.store.ListTicketPartyIDsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list ticket parties: %w", err)
	}
	archived, err := s.store.ListArchivedAttendancePartyIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list archived parties: %w", err)
	}
	partyIDs := lo.Uniq(append(fromTickets, archived...))
	sort.Strings(partyIDs)
	return partyIDs, nil
}

// GetAttendeeIDsForParty returns the users who attended the party.
func (s *Service) GetAttendeeIDsForParty(ctx context.Context, partyID string) ([]uuid.UUID, error) {
	fromTickets, err := s.store.ListTicketUserIDsForParty(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("list ticket users: %w", err)
	}
	archived, err := s.store.ListArchivedAttendeeIDs(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("list archived attendees: %w", err)
	}
	userIDs := lo.Uniq(append(fromTickets, archived...))
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i].String() < userIDs[j].String() })
	return userIDs, nil
}

// GetTopAttendees returns the users who attended more than one of the
// parties, most frequent first, at most TopAttendeesLimit.
func (s *Service) GetTopAttendees(ctx context.Context, partyIDs []string) ([]AttendeeCount, error) {
	if len(partyIDs) == 0 {
		return nil, nil
	}
	fromTickets, err := s.store.CountTicketAttendances(ctx, partyIDs)
	if err != nil {
		return nil, fmt.Errorf("count ticket attendances: %w", err)
	}
	archived, err := s.store.CountArchivedAttendances(ctx, partyIDs)
	if err != nil {
		return nil, fmt.Errorf("count archived attendances: %w", err)
	}

	merged := make(map[uuid.UUID]int, len(fromTickets)+len(archived))
	for userID, n := range fromTickets {
		merged[userID] += n
	}
	for userID, n := range archived {
		merged[userID] += n
	}

	top := lo.FilterMap(lo.Entries(merged), func(entry lo.Entry[uuid.UUID, int], _ int) (AttendeeCount, bool) {
		return AttendeeCount{UserID: entry.Key, Count: entry.Value}, entry.Value > 1
	})
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].UserID.String() < top[j].UserID.String()
	})
	if len(top) > TopAttendeesLimit {
		top = top[:TopAttendeesLimit]
	}
	return top, nil
}
