package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language is an immutable language selection identified by its code.
//
// The single unexported field makes == and map keys compare by code.
type Language struct {
	code string
}

// NewLanguage builds a Language from a BCP 47 code such as "en" or "de".
func NewLanguage(code string) (Language, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Language{}, fmt.Errorf("language code is required")
	}
	if _, err := language.Parse(code); err != nil {
		return Language{}, fmt.Errorf("parse language code %q: %w", code, err)
	}
	return Language{code: code}, nil
}

// MustLanguage is like NewLanguage but panics on invalid codes.
func MustLanguage(code string) Language {
	lang, err := NewLanguage(code)
	if err != nil {
		panic(err)
	}
	return lang
}

// LanguageFromTag wraps a parsed tag.
func LanguageFromTag(tag language.Tag) Language {
	return Language{code: tag.String()}
}

// Code returns the language code.
func (l Language) Code() string {
	return l.code
}

// Tag returns the parsed tag, or language.Und for the zero Language.
func (l Language) Tag() language.Tag {
	if l.code == "" {
		return language.Und
	}
	tag, err := language.Parse(l.code)
	if err != nil {
		return language.Und
	}
	return tag
}

// IsZero reports whether l was never initialized.
func (l Language) IsZero() bool {
	return l.code == ""
}

// Less orders languages by code.
func (l Language) Less(other Language) bool {
	return l.code < other.code
}

func (l Language) String() string {
	return l.code
}

// SupportedLanguages returns the supported tags as Language values.
func SupportedLanguages() []Language {
	tags := SupportedTags()
	out := make([]Language, 0, len(tags))
	for _, tag := range tags {
		out = append(out, LanguageFromTag(tag))
	}
	return out
}
