package admin

import (
	"log"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/lanparty/internal/platform/errors"
	"github.com/louisbranch/lanparty/internal/platform/requestctx"
	routepath "github.com/louisbranch/lanparty/internal/services/admin/routepath"
)

// tokenCookieName is the cookie the login endpoint sets.
const tokenCookieName = "lp_token"

var errAdminRequired = apperrors.New(apperrors.CodePermissionDenied, "admin account required")

// requireAuth wraps next with session-token authentication. Only admin
// accounts pass; static assets and login stay public.
func requireAuth(next http.Handler, authenticator Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isAuthExempt(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if authenticator == nil {
			writeError(w, r, apperrors.New(apperrors.CodeUnauthenticated, "authentication is not configured"))
			return
		}

		token := tokenFromRequest(r)
		if token == "" {
			writeError(w, r, apperrors.New(apperrors.CodeUnauthenticated, "authentication required"))
			return
		}

		user, err := authenticator.Authenticate(r.Context(), token)
		if err != nil {
			if apperrors.HTTPStatus(err) == http.StatusInternalServerError {
				log.Printf("admin auth error: %v", err)
			}
			writeError(w, r, apperrors.Wrap(apperrors.CodeUnauthenticated, "authentication required", err))
			return
		}
		if !user.Admin {
			writeError(w, r, errAdminRequired)
			return
		}

		ctx := requestctx.WithUser(r.Context(), requestctx.User{ID: user.ID, ScreenName: user.ScreenName})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isAuthExempt returns true for paths that should bypass authentication.
func isAuthExempt(path string) bool {
	return routepath.IsAuthExempt(path)
}

// tokenFromRequest reads the session token from the Authorization header,
// falling back to the token cookie.
func tokenFromRequest(r *http.Request) string {
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	cookie, err := r.Cookie(tokenCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}
