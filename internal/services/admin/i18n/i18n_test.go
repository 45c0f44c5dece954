package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/text/language"
)

func TestResolveTag(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		cookie      string
		accept      string
		want        language.Tag
		wantPersist bool
	}{
		{name: "default", target: "/", want: language.English},
		{name: "query", target: "/?lang=de", want: language.German, wantPersist: true},
		{name: "unsupported query falls through", target: "/?lang=ja", cookie: "de", want: language.German},
		{name: "cookie", target: "/", cookie: "de", want: language.German},
		{name: "accept language", target: "/", accept: "de-AT,de;q=0.9", want: language.German},
		{name: "unsupported accept language", target: "/", accept: "ja", want: language.English},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LangCookieName, Value: tc.cookie})
			}
			if tc.accept != "" {
				req.Header.Set("Accept-Language", tc.accept)
			}
			got, persist := ResolveTag(req)
			if got != tc.want || persist != tc.wantPersist {
				t.Fatalf("ResolveTag = %v, %v; want %v, %v", got, persist, tc.want, tc.wantPersist)
			}
		})
	}
}

func TestSetLanguageCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetLanguageCookie(rec, language.German)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != LangCookieName || cookies[0].Value != "de" {
		t.Fatalf("cookies = %v", cookies)
	}
}

func TestLanguageOptions(t *testing.T) {
	options := LanguageOptions(language.German, func(tag language.Tag) string { return LanguageKeyLabel(tag) })
	if len(options) != 2 {
		t.Fatalf("options = %+v", options)
	}
	if options[0].Label != "admin.lang_en" || options[0].Active {
		t.Fatalf("first option = %+v", options[0])
	}
	if options[1].Tag != "de" || !options[1].Active {
		t.Fatalf("second option = %+v", options[1])
	}
}

func TestLanguageURL(t *testing.T) {
	if got := LanguageURL("/webhooks/", "x=1&lang=en", "de"); got != "/webhooks/?lang=de&x=1" {
		t.Fatalf("LanguageURL = %q", got)
	}
	if got := LanguageURL("", "", "en"); got != "/?lang=en" {
		t.Fatalf("LanguageURL = %q", got)
	}
}
