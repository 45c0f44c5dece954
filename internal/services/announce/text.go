package announce

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/lanparty/internal/events"
	"github.com/louisbranch/lanparty/internal/platform/i18n"
)

// TextBuilder renders announcement texts in one language.
type TextBuilder struct {
	printer *message.Printer
}

// NewTextBuilder renders texts in the supported language closest to tag.
func NewTextBuilder(tag language.Tag) TextBuilder {
	return TextBuilder{printer: i18n.Printer(i18n.MatchTags([]language.Tag{tag}))}
}

// Text returns the announcement for event, or false for events that are
// not announced.
func (b TextBuilder) Text(event events.Event) (string, bool) {
	initiator := b.screenNameOrFallback(event.EventBase().InitiatorName())
	switch e := event.(type) {
	case events.TicketCheckedIn:
		return b.printer.Sprintf("announce.ticket_checked_in", initiator, e.TicketCode, b.screenNameOrFallback(e.UserScreenName)), true
	case events.TourneyMatchCommentCreated:
		return b.printer.Sprintf("announce.match_comment_created", initiator, e.MatchID.String()), true
	case events.UserAvatarUpdated:
		return b.printer.Sprintf("announce.avatar_updated", b.screenNameOrFallback(e.UserScreenName)), true
	case events.UserBadgeAwarded:
		return b.printer.Sprintf("announce.user_badge_awarded", initiator, e.BadgeLabel, b.screenNameOrFallback(e.UserScreenName)), true
	case events.PasswordUpdated:
		return b.printer.Sprintf("announce.password_updated", initiator, b.screenNameOrFallback(e.UserScreenName)), true
	case events.UserLoggedIn:
		return b.printer.Sprintf("announce.user_logged_in", initiator), true
	default:
		return "", false
	}
}

func (b TextBuilder) screenNameOrFallback(screenName string) string {
	if screenName == "" {
		return b.printer.Sprintf("announce.someone")
	}
	return screenName
}

// Attributes returns the values webhook event filters match against.
func Attributes(event events.Event) map[string]string {
	attrs := map[string]string{}
	if initiator := event.EventBase().InitiatorID; initiator.Valid {
		attrs["initiator_id"] = initiator.UUID.String()
	}
	switch e := event.(type) {
	case events.TicketCheckedIn:
		attrs["ticket_id"] = e.TicketID.String()
		attrs["user_id"] = e.UserID.String()
	case events.TourneyMatchCommentCreated:
		attrs["match_id"] = e.MatchID.String()
	case events.UserAvatarUpdated:
		attrs["user_id"] = e.UserID.String()
	case events.UserBadgeAwarded:
		attrs["user_id"] = e.UserID.String()
		attrs["badge_id"] = e.BadgeID.String()
	case events.PasswordUpdated:
		attrs["user_id"] = e.UserID.String()
	}
	return attrs
}
