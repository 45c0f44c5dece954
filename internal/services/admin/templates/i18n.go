package templates

import "golang.org/x/text/message"

// Localizer is satisfied by *message.Printer.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T translates key with loc. Without a printer the key itself is shown so
// untranslated pages stay readable in tests.
func T(loc Localizer, key string, args ...any) string {
	if loc == nil {
		return key
	}
	return loc.Sprintf(key, args...)
}
