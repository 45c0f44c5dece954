package admin

import (
	"net/http"
	"time"

	"github.com/louisbranch/lanparty/internal/platform/schema"
)

var loginSchema = schema.New(
	schema.Field{Name: "screen_name", Type: schema.String, Required: true, Rule: "notblank"},
	schema.Field{Name: "password", Type: schema.String, Required: true, Rule: "notblank"},
)

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleLogin exchanges credentials for a session token, returned in the
// body and set as the token cookie.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	record, err := loginSchema.DecodeJSON(r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.services.Authn.Login(r.Context(), record.String("screen_name"), record.String("password"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, loginResponse{Token: result.Token, ExpiresAt: result.ExpiresAt})
}
