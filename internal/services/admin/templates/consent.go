package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	routepath "github.com/louisbranch/lanparty/internal/services/admin/routepath"
)

// ConsentSubjectRow is one row of the consent subject table.
type ConsentSubjectRow struct {
	ID                 string
	Name               string
	Title              string
	CheckboxLabel      string
	CheckboxLinkTarget string
	ConsentCount       int
}

// ConsentSubjectForm holds submitted values so a failed form keeps them.
type ConsentSubjectForm struct {
	Name               string
	Title              string
	CheckboxLabel      string
	CheckboxLinkTarget string
}

// ConsentSubjectsView provides data for the consent subjects page.
type ConsentSubjectsView struct {
	Flash    Flash
	Subjects []ConsentSubjectRow
	Form     ConsentSubjectForm
	Errors   []FieldError
}

// ConsentSubjectsPage renders the subject table and creation form.
func ConsentSubjectsPage(view ConsentSubjectsView, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw(`<h1>`)
		h.text(T(loc, "admin.consent.subjects.title"))
		h.raw(`</h1>`)
		if h.err != nil {
			return h.err
		}
		if err := FlashMessage(view.Flash).Render(ctx, w); err != nil {
			return err
		}

		if len(view.Subjects) == 0 {
			h.raw(`<p class="empty">`)
			h.text(T(loc, "admin.consent.subjects.empty"))
			h.raw(`</p>`)
		} else {
			h.raw(`<table id="consent-subjects"><thead><tr>`)
			h.headerCell(T(loc, "admin.consent.subjects.name"))
			h.headerCell(T(loc, "admin.consent.subjects.subject_title"))
			h.headerCell(T(loc, "admin.consent.subjects.checkbox_label"))
			h.headerCell(T(loc, "admin.consent.subjects.link_target"))
			h.headerCell(T(loc, "admin.consent.subjects.consents"))
			h.raw(`</tr></thead><tbody>`)
			for _, subject := range view.Subjects {
				h.raw(`<tr`)
				h.attr("data-subject-id", subject.ID)
				h.raw(`>`)
				h.cell(subject.Name)
				h.cell(subject.Title)
				h.cell(subject.CheckboxLabel)
				h.cell(subject.CheckboxLinkTarget)
				h.cell(strconv.Itoa(subject.ConsentCount))
				h.raw(`</tr>`)
			}
			h.raw(`</tbody></table>`)
		}

		h.raw(`<form method="post"`)
		h.attr("action", routepath.ConsentSubjects)
		h.raw(`>`)
		h.input("name", T(loc, "admin.consent.subjects.name"), "text", view.Form.Name, true, view.Errors)
		h.input("title", T(loc, "admin.consent.subjects.subject_title"), "text", view.Form.Title, true, view.Errors)
		h.input("checkbox_label", T(loc, "admin.consent.subjects.checkbox_label"), "text", view.Form.CheckboxLabel, true, view.Errors)
		h.input("checkbox_link_target", T(loc, "admin.consent.subjects.link_target"), "text", view.Form.CheckboxLinkTarget, false, view.Errors)
		h.raw(`<button type="submit">`)
		h.text(T(loc, "admin.consent.subjects.create"))
		h.raw(`</button></form>`)
		return h.err
	})
}

// ConsentSubjectsFullPage renders the page inside the admin layout.
func ConsentSubjectsFullPage(view ConsentSubjectsView, page PageContext) templ.Component {
	return Layout(page, T(page.Loc, "admin.consent.subjects.title"), ConsentSubjectsPage(view, page.Loc))
}
