package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/samber/lo"

	routepath "github.com/louisbranch/lanparty/internal/services/admin/routepath"
)

// WebhookRow is one row of the webhook table.
type WebhookRow struct {
	ID          string
	Description string
	Format      string
	EventTypes  []string
	Channel     string
	URL         string
	Enabled     bool
}

// WebhookForm holds submitted values so a failed form keeps them.
type WebhookForm struct {
	Description string
	Format      string
	EventTypes  []string
	URL         string
	TextPrefix  string
	Channel     string
	Enabled     bool
}

// WebhooksView provides data for the webhooks page.
type WebhooksView struct {
	Flash      Flash
	Webhooks   []WebhookRow
	Form       WebhookForm
	Errors     []FieldError
	Formats    []string
	EventNames []string
}

// WebhooksPage renders the webhook table and creation form.
func WebhooksPage(view WebhooksView, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw(`<h1>`)
		h.text(T(loc, "admin.webhooks.title"))
		h.raw(`</h1>`)
		if h.err != nil {
			return h.err
		}
		if err := FlashMessage(view.Flash).Render(ctx, w); err != nil {
			return err
		}

		if len(view.Webhooks) == 0 {
			h.raw(`<p class="empty">`)
			h.text(T(loc, "admin.webhooks.empty"))
			h.raw(`</p>`)
		} else {
			h.raw(`<table id="webhooks"><thead><tr>`)
			h.headerCell(T(loc, "admin.webhooks.description"))
			h.headerCell(T(loc, "admin.webhooks.format"))
			h.headerCell(T(loc, "admin.webhooks.event_types"))
			h.headerCell(T(loc, "admin.webhooks.channel"))
			h.headerCell(T(loc, "admin.webhooks.url"))
			h.headerCell(T(loc, "admin.webhooks.enabled"))
			h.raw(`<th></th></tr></thead><tbody>`)
			for _, webhook := range view.Webhooks {
				h.raw(`<tr`)
				h.attr("data-webhook-id", webhook.ID)
				h.raw(`>`)
				h.cell(webhook.Description)
				h.cell(webhook.Format)
				h.cell(strings.Join(webhook.EventTypes, ", "))
				h.cell(webhook.Channel)
				h.cell(webhook.URL)
				h.cell(yesNo(loc, webhook.Enabled))
				h.raw(`<td><form method="post"`)
				h.attr("action", routepath.WebhookDelete(webhook.ID))
				h.raw(`><button type="submit">`)
				h.text(T(loc, "admin.webhooks.delete"))
				h.raw(`</button></form></td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}

		h.raw(`<form method="post"`)
		h.attr("action", routepath.Webhooks)
		h.raw(`>`)
		h.input("description", T(loc, "admin.webhooks.description"), "text", view.Form.Description, false, view.Errors)
		h.raw(`<label>`)
		h.text(T(loc, "admin.webhooks.format"))
		h.raw(`<select name="format">`)
		for _, format := range view.Formats {
			h.raw(`<option`)
			h.attr("value", format)
			if format == view.Form.Format {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(format)
			h.raw(`</option>`)
		}
		h.raw(`</select></label><fieldset><legend>`)
		h.text(T(loc, "admin.webhooks.event_types"))
		h.raw(`</legend>`)
		for _, name := range view.EventNames {
			h.raw(`<label><input type="checkbox" name="event_types"`)
			h.attr("value", name)
			if lo.Contains(view.Form.EventTypes, name) {
				h.raw(` checked`)
			}
			h.raw(`>`)
			h.text(name)
			h.raw(`</label>`)
		}
		if reason := fieldReason(view.Errors, "event_types"); reason != "" {
			h.raw(`<small class="field-error">`)
			h.text(reason)
			h.raw(`</small>`)
		}
		h.raw(`</fieldset>`)
		h.input("url", T(loc, "admin.webhooks.url"), "url", view.Form.URL, true, view.Errors)
		h.input("text_prefix", T(loc, "admin.webhooks.text_prefix"), "text", view.Form.TextPrefix, false, view.Errors)
		h.input("channel", T(loc, "admin.webhooks.channel"), "text", view.Form.Channel, false, view.Errors)
		h.raw(`<label><input type="checkbox" name="enabled" value="true"`)
		if view.Form.Enabled {
			h.raw(` checked`)
		}
		h.raw(`>`)
		h.text(T(loc, "admin.webhooks.enabled"))
		h.raw(`</label><button type="submit">`)
		h.text(T(loc, "admin.webhooks.create"))
		h.raw(`</button></form>`)
		return h.err
	})
}

// WebhooksFullPage renders the page inside the admin layout.
func WebhooksFullPage(view WebhooksView, page PageContext) templ.Component {
	return Layout(page, T(page.Loc, "admin.webhooks.title"), WebhooksPage(view, page.Loc))
}
