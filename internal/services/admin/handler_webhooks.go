package admin

import (
	"errors"
	"net/http"

	"github.com/samber/lo"
	"golang.org/x/text/message"

	"github.com/louisbranch/lanparty/internal/services/admin/templates"
	"github.com/louisbranch/lanparty/internal/services/announce"
	"github.com/louisbranch/lanparty/internal/services/webhooks"
)

func (h *Handler) handleWebhooksPage(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.localizer(w, r)
	view := templates.WebhooksView{Form: templates.WebhookForm{Format: string(webhooks.FormatDiscord), Enabled: true}}
	switch r.URL.Query().Get("done") {
	case "created":
		view.Flash = templates.Flash{Message: loc.Sprintf("admin.webhooks.created")}
	case "deleted":
		view.Flash = templates.Flash{Message: loc.Sprintf("admin.webhooks.deleted")}
	}
	h.renderWebhooks(w, r, loc, lang, http.StatusOK, view)
}

func (h *Handler) handleWebhookCreate(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.localizer(w, r)
	if !requireSameOrigin(w, r, loc) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	view := templates.WebhooksView{Form: templates.WebhookForm{
		Description: r.PostForm.Get("description"),
		Format:      r.PostForm.Get("format"),
		EventTypes:  r.PostForm["event_types"],
		URL:         r.PostForm.Get("url"),
		TextPrefix:  r.PostForm.Get("text_prefix"),
		Channel:     r.PostForm.Get("channel"),
		Enabled:     r.PostForm.Get("enabled") != "",
	}}

	record, err := webhooks.FormSchema.ValidateForm(r.PostForm)
	if err == nil {
		_, err = h.services.Webhooks.CreateOutgoingWebhook(r.Context(), webhooks.FromRecord(record))
	}
	if err != nil {
		status, flash, fieldErrs := formFailure(err, loc, map[error]string{
			webhooks.ErrInvalidFormat: "format",
			webhooks.ErrNoEventTypes:  "event_types",
		})
		if status == http.StatusInternalServerError {
			writeError(w, r, err)
			return
		}
		view.Flash = flash
		view.Errors = fieldErrs
		h.renderWebhooks(w, r, loc, lang, status, view)
		return
	}

	http.Redirect(w, r, r.URL.Path+"?done=created", http.StatusSeeOther)
}

func (h *Handler) handleWebhookDelete(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.localizer(w, r)
	if !requireSameOrigin(w, r, loc) {
		return
	}
	webhookID, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := h.services.Webhooks.DeleteOutgoingWebhook(r.Context(), webhookID); err != nil {
		if errors.Is(err, webhooks.ErrWebhookNotFound) {
			http.NotFound(w, r)
			return
		}
		writeError(w, r, err)
		return
	}
	http.Redirect(w, r, "/webhooks/?done=deleted", http.StatusSeeOther)
}

func (h *Handler) renderWebhooks(w http.ResponseWriter, r *http.Request, loc *message.Printer, lang string, status int, view templates.WebhooksView) {
	all, err := h.services.Webhooks.GetAllWebhooks(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	view.Webhooks = lo.Map(all, func(webhook webhooks.OutgoingWebhook, _ int) templates.WebhookRow {
		return templates.WebhookRow{
			ID:          webhook.ID.String(),
			Description: webhook.Description,
			Format:      string(webhook.Format),
			EventTypes:  webhook.EventTypes,
			Channel:     webhook.Channel(),
			URL:         webhook.URL,
			Enabled:     webhook.Enabled,
		}
	})
	view.Formats = lo.Map(webhooks.Formats, func(format webhooks.Format, _ int) string { return string(format) })
	view.EventNames = announce.EventNames

	pageCtx := h.pageContext(lang, loc, r)
	renderPage(w, r, status,
		templates.WebhooksPage(view, loc),
		templates.WebhooksFullPage(view, pageCtx),
		loc.Sprintf("admin.webhooks.title"),
	)
}
