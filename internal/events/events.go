// Package events defines the payloads carried by lanparty signals.
//
// Every payload embeds Base so listeners can attribute an event to the user
// who triggered it without knowing the concrete type.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Signal names of the "event" namespace.
const (
	NameTicketCheckedIn            = "ticket-checked-in"
	NameTourneyMatchCommentCreated = "match-comment-created"
	NameUserAvatarUpdated          = "avatar-updated"
	NameUserBadgeAwarded           = "user-badge-awarded"
	NamePasswordUpdated            = "password-updated"
	NameUserLoggedIn               = "user-logged-in"
)

// Namespace is the name of the namespace every catalog registers into.
const Namespace = "event"

// Event is implemented by every payload.
type Event interface {
	EventName() string
	EventBase() Base
}

// Base holds the fields shared by every event.
type Base struct {
	OccurredAt          time.Time
	InitiatorID         uuid.NullUUID
	InitiatorScreenName string
}

// EventBase returns b.
func (b Base) EventBase() Base {
	return b
}

// InitiatorName returns the initiator's screen name, or "" when the event
// was not triggered by a user.
func (b Base) InitiatorName() string {
	if !b.InitiatorID.Valid {
		return ""
	}
	return b.InitiatorScreenName
}

// NewBase builds a Base for an event initiated by the given user. A nil
// initiator ID marks a system-triggered event.
func NewBase(occurredAt time.Time, initiatorID uuid.UUID, initiatorScreenName string) Base {
	base := Base{OccurredAt: occurredAt.UTC()}
	if initiatorID != uuid.Nil {
		base.InitiatorID = uuid.NullUUID{UUID: initiatorID, Valid: true}
		base.InitiatorScreenName = initiatorScreenName
	}
	return base
}

// TicketCheckedIn is published when a ticket's user has been checked in.
type TicketCheckedIn struct {
	Base
	TicketID       uuid.UUID
	TicketCode     string
	OccupiedSeatID uuid.NullUUID
	UserID         uuid.UUID
	UserScreenName string
}

func (TicketCheckedIn) EventName() string { return NameTicketCheckedIn }

// TourneyMatchCommentCreated is published after a match comment was posted.
type TourneyMatchCommentCreated struct {
	Base
	MatchID   uuid.UUID
	CommentID uuid.UUID
}

func (TourneyMatchCommentCreated) EventName() string { return NameTourneyMatchCommentCreated }

// UserAvatarUpdated is published when a user's avatar image changed.
type UserAvatarUpdated struct {
	Base
	UserID         uuid.UUID
	UserScreenName string
}

func (UserAvatarUpdated) EventName() string { return NameUserAvatarUpdated }

// UserBadgeAwarded is published when a badge was awarded to a user.
type UserBadgeAwarded struct {
	Base
	UserID         uuid.UUID
	UserScreenName string
	BadgeID        uuid.UUID
	BadgeLabel     string
}

func (UserBadgeAwarded) EventName() string { return NameUserBadgeAwarded }

// PasswordUpdated is published after a user's password hash was replaced.
type PasswordUpdated struct {
	Base
	UserID         uuid.UUID
	UserScreenName string
}

func (PasswordUpdated) EventName() string { return NamePasswordUpdated }

// UserLoggedIn is published after a successful login.
type UserLoggedIn struct {
	Base
	SessionID string
}

func (UserLoggedIn) EventName() string { return NameUserLoggedIn }

var (
	_ Event = TicketCheckedIn{}
	_ Event = TourneyMatchCommentCreated{}
	_ Event = UserAvatarUpdated{}
	_ Event = UserBadgeAwarded{}
	_ Event = PasswordUpdated{}
	_ Event = UserLoggedIn{}
)
