// Package i18n holds the language model shared by every service: the
// Language value object, the supported tags and request-independent tag
// matching.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/lanparty/internal/platform/i18n/catalog"
)

var supportedTags = []language.Tag{
	language.English,
	language.German,
}

var tagMatcher = language.NewMatcher(supportedTags)

// SupportedTags returns the languages the platform ships catalogs for.
func SupportedTags() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// DefaultTag returns the fallback language.
func DefaultTag() language.Tag {
	return language.English
}

// ParseTag parses value and reports whether it names a supported language.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	matched, _, confidence := tagMatcher.Match(tag)
	if confidence < language.High {
		return language.Und, false
	}
	return baseTag(matched), true
}

// MatchTags picks the best supported language for the preferences given.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	matched, _, confidence := tagMatcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return baseTag(matched)
}

// Printer returns a message printer for tag with catalog messages loaded.
func Printer(tag language.Tag) *message.Printer {
	catalog.Default()
	return message.NewPrinter(tag)
}

// baseTag strips the matcher's "-u-rg-" extension so tags compare equal to
// the supported list.
func baseTag(tag language.Tag) language.Tag {
	base, _ := tag.Base()
	for _, supported := range supportedTags {
		if b, _ := supported.Base(); b == base {
			return supported
		}
	}
	return tag
}
