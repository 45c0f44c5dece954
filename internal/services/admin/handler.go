package admin

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/message"

	"github.com/louisbranch/lanparty/internal/platform/requestctx"
	"github.com/louisbranch/lanparty/internal/services/admin/i18n"
	routepath "github.com/louisbranch/lanparty/internal/services/admin/routepath"
	"github.com/louisbranch/lanparty/internal/services/admin/templates"
	"github.com/louisbranch/lanparty/internal/services/attendance"
	"github.com/louisbranch/lanparty/internal/services/authn"
	"github.com/louisbranch/lanparty/internal/services/consent"
	"github.com/louisbranch/lanparty/internal/services/ticketing"
	"github.com/louisbranch/lanparty/internal/services/tourney"
	"github.com/louisbranch/lanparty/internal/services/useravatar"
	"github.com/louisbranch/lanparty/internal/services/userbadge"
	"github.com/louisbranch/lanparty/internal/services/users"
	"github.com/louisbranch/lanparty/internal/services/webhooks"
)

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (users.User, error)
}

// Services are the domain services the admin handlers call.
type Services struct {
	Authn      *authn.Service
	Attendance *attendance.Service
	Ticketing  *ticketing.Service
	Tourney    *tourney.Service
	Avatars    *useravatar.Service
	Badges     *userbadge.Service
	Consent    *consent.Service
	Webhooks   *webhooks.Service
}

// Handler routes admin requests.
type Handler struct {
	services Services
}

// NewHandler builds the HTTP handler for the admin server. Every route
// except login and static files requires an admin session.
func NewHandler(services Services) http.Handler {
	handler := &Handler{services: services}
	var authenticator Authenticator
	if services.Authn != nil {
		authenticator = services.Authn
	}
	return requireAuth(handler.routes(), authenticator)
}

// routes wires the HTTP routes for the admin handler.
func (h *Handler) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, routepath.ConsentSubjects, http.StatusFound)
	})
	mux.HandleFunc("GET "+routepath.ConsentSubjects, h.handleConsentSubjectsPage)
	mux.HandleFunc("POST "+routepath.ConsentSubjects, h.handleConsentSubjectCreate)
	mux.HandleFunc("GET "+routepath.Webhooks+"{$}", h.handleWebhooksPage)
	mux.HandleFunc("POST "+routepath.Webhooks+"{$}", h.handleWebhookCreate)
	mux.HandleFunc("POST "+routepath.WebhookPattern, h.handleWebhookDelete)

	mux.HandleFunc("POST "+routepath.Login, h.handleLogin)

	mux.HandleFunc("POST "+routepath.APIArchivedAttendances, h.handleArchivedAttendanceCreate)
	mux.HandleFunc("POST "+routepath.APITicketCheckIn, h.handleTicketCheckIn)
	mux.HandleFunc("POST "+routepath.APIUserBadges, h.handleBadgeAward)
	mux.HandleFunc("POST "+routepath.APIUserPassword, h.handlePasswordUpdate)
	mux.HandleFunc("POST "+routepath.APIUserAvatar, h.handleAvatarUpdate)
	mux.HandleFunc("POST "+routepath.APIMatchComments, h.handleMatchCommentCreate)
	return mux
}

func (h *Handler) localizer(w http.ResponseWriter, r *http.Request) (*message.Printer, string) {
	tag, persist := i18n.ResolveTag(r)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}
	return i18n.Printer(tag), tag.String()
}

func (h *Handler) pageContext(lang string, loc *message.Printer, r *http.Request) templates.PageContext {
	page := templates.PageContext{
		Lang:         lang,
		Loc:          loc,
		CurrentPath:  r.URL.Path,
		CurrentQuery: r.URL.RawQuery,
	}
	if user, ok := requestctx.UserFromContext(r.Context()); ok {
		page.ScreenName = user.ScreenName
	}
	return page
}

// renderPage writes fragment for HTMX requests and full otherwise.
func renderPage(w http.ResponseWriter, r *http.Request, status int, fragment templ.Component, full templ.Component, title string) {
	component := full
	if isHTMXRequest(r) {
		component = fragment
		w.Header().Set("HX-Title", templates.ComposeAdminPageTitle(title))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := component.Render(r.Context(), w); err != nil {
		log.Printf("admin render %s: %v", r.URL.Path, err)
	}
}

func isHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

// requireSameOrigin rejects form posts whose Origin or Referer names
// another host. Requests carrying neither header are allowed so API
// clients and tests can post forms directly.
func requireSameOrigin(w http.ResponseWriter, r *http.Request, loc *message.Printer) bool {
	if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" {
		if !sameOrigin(origin, r) {
			http.Error(w, loc.Sprintf("admin.error.csrf_invalid"), http.StatusForbidden)
			return false
		}
		return true
	}
	if referer := strings.TrimSpace(r.Referer()); referer != "" {
		if !sameOrigin(referer, r) {
			http.Error(w, loc.Sprintf("admin.error.csrf_invalid"), http.StatusForbidden)
			return false
		}
	}
	return true
}

func sameOrigin(rawURL string, r *http.Request) bool {
	if rawURL == "" || rawURL == "null" || r == nil {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	return strings.EqualFold(parsed.Host, r.Host)
}
