package admin

import (
	"errors"
	"net/http"

	"github.com/samber/lo"
	"golang.org/x/text/message"

	"github.com/louisbranch/lanparty/internal/platform/schema"
	"github.com/louisbranch/lanparty/internal/services/admin/templates"
	"github.com/louisbranch/lanparty/internal/services/consent"
)

func (h *Handler) handleConsentSubjectsPage(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.localizer(w, r)
	view := templates.ConsentSubjectsView{}
	if r.URL.Query().Get("created") == "1" {
		view.Flash = templates.Flash{Message: loc.Sprintf("admin.consent.subjects.created")}
	}
	h.renderConsentSubjects(w, r, loc, lang, http.StatusOK, view)
}

func (h *Handler) handleConsentSubjectCreate(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.localizer(w, r)
	if !requireSameOrigin(w, r, loc) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	view := templates.ConsentSubjectsView{Form: templates.ConsentSubjectForm{
		Name:               r.PostForm.Get("name"),
		Title:              r.PostForm.Get("title"),
		CheckboxLabel:      r.PostForm.Get("checkbox_label"),
		CheckboxLinkTarget: r.PostForm.Get("checkbox_link_target"),
	}}

	record, err := consent.CreateSubjectSchema.ValidateForm(r.PostForm)
	if err == nil {
		_, err = h.services.Consent.CreateSubjectFromRecord(r.Context(), record)
	}
	if err != nil {
		status, flash, fieldErrs := formFailure(err, loc, map[error]string{
			consent.ErrSubjectNameTaken: "name",
			consent.ErrInvalidName:      "name",
		})
		if status == http.StatusInternalServerError {
			writeError(w, r, err)
			return
		}
		view.Flash = flash
		view.Errors = fieldErrs
		h.renderConsentSubjects(w, r, loc, lang, status, view)
		return
	}

	http.Redirect(w, r, r.URL.Path+"?created=1", http.StatusSeeOther)
}

func (h *Handler) renderConsentSubjects(w http.ResponseWriter, r *http.Request, loc *message.Printer, lang string, status int, view templates.ConsentSubjectsView) {
	subjects, err := h.services.Consent.GetSubjectsWithConsentCounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	view.Subjects = lo.Map(subjects, func(subject consent.SubjectWithCount, _ int) templates.ConsentSubjectRow {
		return templates.ConsentSubjectRow{
			ID:                 subject.ID.String(),
			Name:               subject.Name,
			Title:              subject.Title,
			CheckboxLabel:      subject.CheckboxLabel,
			CheckboxLinkTarget: subject.CheckboxLinkTarget,
			ConsentCount:       subject.ConsentCount,
		}
	})
	pageCtx := h.pageContext(lang, loc, r)
	renderPage(w, r, status,
		templates.ConsentSubjectsPage(view, loc),
		templates.ConsentSubjectsFullPage(view, pageCtx),
		loc.Sprintf("admin.consent.subjects.title"),
	)
}

// formFailure turns a form submission error into a status, a flash
// message and per-field errors. fieldOf maps domain errors onto the form
// field they concern. Unexpected errors yield 500.
func formFailure(err error, loc *message.Printer, fieldOf map[error]string) (int, templates.Flash, []templates.FieldError) {
	invalid := templates.Flash{Message: loc.Sprintf("admin.form.invalid"), Error: true}

	var validationErrs *schema.Errors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest, invalid, lo.Map(validationErrs.Fields, func(fe schema.FieldError, _ int) templates.FieldError {
			return templates.FieldError{Field: fe.Field, Reason: fe.Reason}
		})
	}
	for target, field := range fieldOf {
		if errors.Is(err, target) {
			return http.StatusBadRequest, invalid, []templates.FieldError{{Field: field, Reason: err.Error()}}
		}
	}
	return http.StatusInternalServerError, templates.Flash{}, nil
}
