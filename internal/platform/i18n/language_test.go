package i18n

import (
	"sort"
	"testing"

	"golang.org/x/text/language"
)

func TestLanguageEquality(t *testing.T) {
	a := MustLanguage("de")
	b := MustLanguage("de")
	c := MustLanguage("en")

	if a != b {
		t.Fatalf("expected %v == %v", a, b)
	}
	if a == c {
		t.Fatalf("expected %v != %v", a, c)
	}

	set := map[Language]int{a: 1}
	set[b]++
	if len(set) != 1 || set[a] != 2 {
		t.Fatalf("expected languages to share a map key, got %v", set)
	}
}

func TestNewLanguageRejectsInvalidCodes(t *testing.T) {
	for _, code := range []string{"", "   ", "not a language!"} {
		if _, err := NewLanguage(code); err == nil {
			t.Fatalf("expected error for %q", code)
		}
	}
}

func TestNewLanguageTrimsCode(t *testing.T) {
	lang, err := NewLanguage(" en ")
	if err != nil {
		t.Fatalf("new language: %v", err)
	}
	if lang.Code() != "en" {
		t.Fatalf("Code() = %q, want %q", lang.Code(), "en")
	}
	if lang.Tag() != language.English {
		t.Fatalf("Tag() = %v, want %v", lang.Tag(), language.English)
	}
}

func TestLanguageOrdering(t *testing.T) {
	langs := []Language{MustLanguage("fr"), MustLanguage("de"), MustLanguage("en")}
	sort.Slice(langs, func(i, j int) bool { return langs[i].Less(langs[j]) })

	got := []string{langs[0].Code(), langs[1].Code(), langs[2].Code()}
	want := []string{"de", "en", "fr"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", got, want)
		}
	}
}

func TestZeroLanguage(t *testing.T) {
	var lang Language
	if !lang.IsZero() {
		t.Fatal("expected zero language")
	}
	if lang.Tag() != language.Und {
		t.Fatalf("Tag() = %v, want und", lang.Tag())
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		value string
		want  language.Tag
		ok    bool
	}{
		{value: "de", want: language.German, ok: true},
		{value: "de-AT", want: language.German, ok: true},
		{value: "en-US", want: language.English, ok: true},
		{value: "ja", ok: false},
		{value: "", ok: false},
	}
	for _, tc := range tests {
		got, ok := ParseTag(tc.value)
		if ok != tc.ok {
			t.Fatalf("ParseTag(%q) ok = %v, want %v", tc.value, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("ParseTag(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestMatchTagsFallsBackToDefault(t *testing.T) {
	if got := MatchTags(nil); got != DefaultTag() {
		t.Fatalf("MatchTags(nil) = %v, want %v", got, DefaultTag())
	}
	if got := MatchTags([]language.Tag{language.German}); got != language.German {
		t.Fatalf("MatchTags(de) = %v, want de", got)
	}
}
