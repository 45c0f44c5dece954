// Package routepath names every admin URL so handlers, templates and tests
// agree on them.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root = "/"
)

const (
	StaticPrefix  = "/static/"
	AvatarsPrefix = "/static/avatars/"
)

const (
	Login = "/authentication/login"
)

const (
	ConsentSubjects = "/consent/subjects"
)

const (
	Webhooks       = "/webhooks/"
	WebhookPattern = "/webhooks/{id}/delete"
)

const (
	APIArchivedAttendances = "/api/attendances/archived"
	APITicketCheckIn       = "/api/tickets/{id}/check-in"
	APIUserBadges          = "/api/users/{id}/badges"
	APIUserPassword        = "/api/users/{id}/password"
	APIUserAvatar          = "/api/users/{id}/avatar"
	APIMatchComments       = "/api/matches/{id}/comments"
)

// WebhookDelete is the delete action of one webhook.
func WebhookDelete(webhookID string) string {
	return "/webhooks/" + escapeSegment(webhookID) + "/delete"
}

// TicketCheckIn is the check-in action of one ticket.
func TicketCheckIn(ticketID string) string {
	return "/api/tickets/" + escapeSegment(ticketID) + "/check-in"
}

// UserBadges is the badge awarding endpoint of one user.
func UserBadges(userID string) string {
	return "/api/users/" + escapeSegment(userID) + "/badges"
}

// UserPassword is the password endpoint of one user.
func UserPassword(userID string) string {
	return "/api/users/" + escapeSegment(userID) + "/password"
}

// UserAvatar is the avatar upload endpoint of one user.
func UserAvatar(userID string) string {
	return "/api/users/" + escapeSegment(userID) + "/avatar"
}

// MatchComments is the comment endpoint of one match.
func MatchComments(matchID string) string {
	return "/api/matches/" + escapeSegment(matchID) + "/comments"
}

// IsAuthExempt reports whether path is served without a session.
func IsAuthExempt(path string) bool {
	return strings.HasPrefix(path, StaticPrefix) || path == Login
}

func escapeSegment(value string) string {
	return url.PathEscape(strings.TrimSpace(value))
}
