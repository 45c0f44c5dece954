// Package templates renders the admin HTML pages as templ components.
package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	admini18n "github.com/louisbranch/lanparty/internal/services/admin/i18n"
	routepath "github.com/louisbranch/lanparty/internal/services/admin/routepath"
)

// AppName is the product name shown in titles.
func AppName() string {
	return "lanparty"
}

// PageContext provides shared layout context for admin pages.
type PageContext struct {
	Lang         string
	Loc          Localizer
	CurrentPath  string
	CurrentQuery string
	// ScreenName is the signed-in admin.
	ScreenName string
}

// FieldError marks a form field that failed validation.
type FieldError struct {
	Field  string
	Reason string
}

// Flash is a one-line notice above the page content.
type Flash struct {
	Message string
	Error   bool
}

// ComposeAdminPageTitle appends the application name to a page title.
func ComposeAdminPageTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Admin | " + AppName()
	}
	return title + " | Admin | " + AppName()
}

// Layout wraps content in the full admin document. The content is placed
// inside <main> so HTMX swaps can extract it.
func Layout(page PageContext, title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw(`<!DOCTYPE html><html lang="`)
		h.text(page.Lang)
		h.raw(`"><head><meta charset="utf-8"><title>`)
		h.text(ComposeAdminPageTitle(title))
		h.raw(`</title><script src="https://unpkg.com/htmx.org@2.0.4"></script></head><body hx-boost="true"><nav>`)
		h.link(routepath.ConsentSubjects, T(page.Loc, "admin.nav.consent"))
		h.link(routepath.Webhooks, T(page.Loc, "admin.nav.webhooks"))
		for _, option := range admini18n.LanguageOptions(normalizeLang(page.Lang), func(tag language.Tag) string {
			return T(page.Loc, admini18n.LanguageKeyLabel(tag))
		}) {
			if option.Active {
				h.raw(`<strong>`)
				h.text(option.Label)
				h.raw(`</strong>`)
				continue
			}
			h.link(admini18n.LanguageURL(page.CurrentPath, page.CurrentQuery, option.Tag), option.Label)
		}
		if page.ScreenName != "" {
			h.raw(`<span class="user">`)
			h.text(page.ScreenName)
			h.raw(`</span>`)
		}
		h.raw(`</nav><main>`)
		if h.err != nil {
			return h.err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// FlashMessage renders a notice when flash carries a message.
func FlashMessage(flash Flash) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if flash.Message == "" {
			return nil
		}
		h := newHTMLWriter(w)
		if flash.Error {
			h.raw(`<p class="alert alert-error" role="alert">`)
		} else {
			h.raw(`<p class="alert alert-success" role="status">`)
		}
		h.text(flash.Message)
		h.raw(`</p>`)
		return h.err
	})
}
