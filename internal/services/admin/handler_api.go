package admin

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/lanparty/internal/platform/requestctx"
	"github.com/louisbranch/lanparty/internal/platform/schema"
	"github.com/louisbranch/lanparty/internal/services/attendance"
	"github.com/louisbranch/lanparty/internal/services/useravatar"
)

var (
	pathIDSchema = schema.New(
		schema.Field{Name: "id", Type: schema.UUID, Required: true},
	)
	checkInSchema = schema.New(
		schema.Field{Name: "party_id", Type: schema.String, Required: true},
	)
	awardBadgeSchema = schema.New(
		schema.Field{Name: "badge_id", Type: schema.UUID, Required: true},
	)
	passwordSchema = schema.New(
		schema.Field{Name: "password", Type: schema.String, Required: true},
	)
	commentSchema = schema.New(
		schema.Field{Name: "body", Type: schema.String, Required: true, Rule: "notblank"},
	)
)

// pathID validates the {id} path segment.
func pathID(r *http.Request) (uuid.UUID, error) {
	record, err := pathIDSchema.Validate(map[string]any{"id": r.PathValue("id")})
	if err != nil {
		return uuid.Nil, err
	}
	return record.UUID("id"), nil
}

// initiatorID is the signed-in admin, who initiates every change.
func initiatorID(r *http.Request) uuid.UUID {
	user, _ := requestctx.UserFromContext(r.Context())
	return user.ID
}

func (h *Handler) handleArchivedAttendanceCreate(w http.ResponseWriter, r *http.Request) {
	req, err := attendance.ParseCreateArchivedAttendanceRequest(r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.services.Attendance.CreateArchivedAttendance(r.Context(), req.UserID, req.PartyID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleTicketCheckIn(w http.ResponseWriter, r *http.Request) {
	ticketID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	record, err := checkInSchema.DecodeJSON(r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.services.Ticketing.CheckInUser(r.Context(), record.String("party_id"), ticketID, initiatorID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type awardingResponse struct {
	AwardingID uuid.UUID `json:"awarding_id"`
	BadgeID    uuid.UUID `json:"badge_id"`
	UserID     uuid.UUID `json:"user_id"`
	AwardedAt  time.Time `json:"awarded_at"`
}

func (h *Handler) handleBadgeAward(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	record, err := awardBadgeSchema.DecodeJSON(r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	awarding, _, err := h.services.Badges.AwardBadgeToUser(r.Context(), record.UUID("badge_id"), userID, initiatorID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, awardingResponse{
		AwardingID: awarding.ID,
		BadgeID:    awarding.BadgeID,
		UserID:     awarding.UserID,
		AwardedAt:  awarding.AwardedAt,
	})
}

func (h *Handler) handlePasswordUpdate(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	record, err := passwordSchema.DecodeJSON(r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.services.Authn.UpdatePasswordHash(r.Context(), userID, record.String("password"), initiatorID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type commentResponse struct {
	CommentID uuid.UUID `json:"comment_id"`
	MatchID   uuid.UUID `json:"match_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) handleMatchCommentCreate(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	record, err := commentSchema.DecodeJSON(r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	comment, err := h.services.Tourney.CreateComment(r.Context(), matchID, initiatorID(r), record.String("body"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentResponse{
		CommentID: comment.ID,
		MatchID:   comment.MatchID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	})
}

type avatarResponse struct {
	AvatarID uuid.UUID `json:"avatar_id"`
	URL      string    `json:"url"`
}

func (h *Handler) handleAvatarUpdate(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	avatar, err := h.services.Avatars.UpdateAvatarImage(r.Context(), userID, r.Body, useravatar.DefaultAllowedTypes, initiatorID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, avatarResponse{AvatarID: avatar.ID, URL: avatar.URLPath()})
}
