package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"golang.org/x/text/message"
)

type fakeLocalizer struct {
	value string
}

func (f fakeLocalizer) Sprintf(key message.Reference, args ...any) string {
	return f.value
}

func TestTranslateFallback(t *testing.T) {
	if T(nil, "hello") != "hello" {
		t.Fatal("expected key fallback")
	}
	if T(fakeLocalizer{value: "translated"}, "hello") != "translated" {
		t.Fatal("expected translated value")
	}
}

func TestComposeAdminPageTitle(t *testing.T) {
	if got := ComposeAdminPageTitle(" Webhooks "); got != "Webhooks | Admin | lanparty" {
		t.Fatalf("title = %q", got)
	}
	if got := ComposeAdminPageTitle(""); got != "Admin | lanparty" {
		t.Fatalf("title = %q", got)
	}
}

func TestConsentSubjectsPageEscapesValues(t *testing.T) {
	view := ConsentSubjectsView{
		Flash:    Flash{Message: "saved"},
		Subjects: []ConsentSubjectRow{{ID: "s-1", Name: "<script>", Title: "Privacy", ConsentCount: 3}},
		Errors:   []FieldError{{Field: "title", Reason: "is required"}},
	}
	var buf bytes.Buffer
	if err := ConsentSubjectsPage(view, nil).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := buf.String()
	for _, want := range []string{
		`data-subject-id="s-1"`,
		`&lt;script&gt;`,
		`<td>3</td>`,
		`role="status">saved</p>`,
		`<small class="field-error">is required</small>`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q: %s", want, got)
		}
	}
	if strings.Contains(got, "<script>") {
		t.Fatalf("output contains unescaped markup: %s", got)
	}
}

func TestWebhooksPageRendersDeleteAction(t *testing.T) {
	view := WebhooksView{
		Webhooks:   []WebhookRow{{ID: "w-1", Format: "discord", EventTypes: []string{"a", "b"}, Enabled: true}},
		Form:       WebhookForm{Format: "matrix", EventTypes: []string{"b"}},
		Formats:    []string{"discord", "matrix"},
		EventNames: []string{"a", "b"},
	}
	var buf bytes.Buffer
	if err := WebhooksPage(view, nil).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := buf.String()
	for _, want := range []string{
		`action="/webhooks/w-1/delete"`,
		`<td>a, b</td>`,
		`<option value="matrix" selected>`,
		`value="b" checked>`,
		`<td>admin.yes</td>`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q: %s", want, got)
		}
	}
}

func TestLayoutWrapsContentInMain(t *testing.T) {
	page := PageContext{Lang: "de", CurrentPath: "/webhooks/", ScreenName: "Orga"}
	var buf bytes.Buffer
	if err := WebhooksFullPage(WebhooksView{}, page).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := buf.String()
	for _, want := range []string{
		`<html lang="de">`,
		`<title>admin.webhooks.title | Admin | lanparty</title>`,
		`<main><h1>admin.webhooks.title</h1>`,
		`href="/webhooks/?lang=en"`,
		`<strong>admin.lang_de</strong>`,
		`<span class="user">Orga</span>`,
		`</main></body></html>`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q: %s", want, got)
		}
	}
}
