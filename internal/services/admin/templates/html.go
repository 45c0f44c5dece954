package templates

import (
	"io"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	platformi18n "github.com/louisbranch/lanparty/internal/platform/i18n"
)

// htmlWriter writes markup and remembers the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func newHTMLWriter(w io.Writer) *htmlWriter {
	return &htmlWriter{w: w}
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(` ` + name + `="`)
	h.text(value)
	h.raw(`"`)
}

func (h *htmlWriter) link(href, label string) {
	h.raw(`<a`)
	h.attr("href", href)
	h.raw(`>`)
	h.text(label)
	h.raw(`</a>`)
}

func (h *htmlWriter) cell(value string) {
	h.raw(`<td>`)
	h.text(value)
	h.raw(`</td>`)
}

func (h *htmlWriter) headerCell(value string) {
	h.raw(`<th>`)
	h.text(value)
	h.raw(`</th>`)
}

// input renders a labelled text input with its validation message.
func (h *htmlWriter) input(name, label, inputType, value string, required bool, errs []FieldError) {
	h.raw(`<label>`)
	h.text(label)
	h.raw(`<input`)
	h.attr("type", inputType)
	h.attr("name", name)
	h.attr("value", value)
	if required {
		h.raw(` required`)
	}
	reason := fieldReason(errs, name)
	if reason != "" {
		h.raw(` aria-invalid="true"`)
	}
	h.raw(`>`)
	if reason != "" {
		h.raw(`<small class="field-error">`)
		h.text(reason)
		h.raw(`</small>`)
	}
	h.raw(`</label>`)
}

func fieldReason(errs []FieldError, name string) string {
	for _, fe := range errs {
		if fe.Field == name {
			return fe.Reason
		}
	}
	return ""
}

func yesNo(loc Localizer, value bool) string {
	if value {
		return T(loc, "admin.yes")
	}
	return T(loc, "admin.no")
}

// normalizeLang coerces unknown language codes to the default language.
func normalizeLang(value string) language.Tag {
	if tag, ok := platformi18n.ParseTag(value); ok {
		return tag
	}
	return platformi18n.DefaultTag()
}
