// Package i18nstatus reports how completely each locale translates the
// base locale's message catalog.
package i18nstatus

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/louisbranch/lanparty/internal/platform/i18n/catalog"
)

// Report is the translation status of every locale.
type Report struct {
	BaseLocale string         `json:"base_locale"`
	Locales    []localeStatus `json:"locales"`
}

type localeStatus struct {
	Locale      string            `json:"locale"`
	BaseKeys    int               `json:"base_keys"`
	Translated  int               `json:"translated"`
	Missing     int               `json:"missing"`
	Extra       int               `json:"extra"`
	Completion  float64           `json:"completion"`
	Namespaces  []namespaceStatus `json:"namespaces"`
	MissingKeys []string          `json:"missing_keys"`
	ExtraKeys   []string          `json:"extra_keys"`
}

type namespaceStatus struct {
	Namespace  string  `json:"namespace"`
	BaseKeys   int     `json:"base_keys"`
	Translated int     `json:"translated"`
	Missing    int     `json:"missing"`
	Extra      int     `json:"extra"`
	Completion float64 `json:"completion"`
}

// Config holds the report options.
type Config struct {
	BaseLocale  string
	MarkdownOut string
	JSONOut     string
	// Strict fails the run when any locale misses keys.
	Strict bool
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{}
	fs.StringVar(&cfg.BaseLocale, "base-locale", catalog.BaseLocale, "base locale used as translation source of truth")
	fs.StringVar(&cfg.MarkdownOut, "out", "docs/i18n-status.md", "markdown output path")
	fs.StringVar(&cfg.JSONOut, "json-out", "docs/i18n-status.json", "json output path")
	fs.BoolVar(&cfg.Strict, "strict", false, "exit with an error when translations are missing")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ErrIncomplete reports missing translations in strict mode.
var ErrIncomplete = errors.New("translations are incomplete")

// Run loads the embedded catalogs and writes both report files.
func Run(cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	bundle, err := catalog.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("load i18n catalogs: %w", err)
	}
	if !bundle.HasLocale(cfg.BaseLocale) {
		return fmt.Errorf("base locale %q is missing from catalogs", cfg.BaseLocale)
	}

	rep := BuildReport(bundle, cfg.BaseLocale)
	if err := WriteJSON(cfg.JSONOut, rep); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	if err := WriteMarkdown(cfg.MarkdownOut, rep); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}
	fmt.Fprintf(out, "wrote %s and %s\n", cfg.MarkdownOut, cfg.JSONOut)

	if cfg.Strict {
		for _, locale := range rep.Locales {
			if locale.Missing > 0 {
				return fmt.Errorf("%w: %s misses %d keys", ErrIncomplete, locale.Locale, locale.Missing)
			}
		}
	}
	return nil
}

// BuildReport compares every locale of bundle against baseLocale.
func BuildReport(bundle *catalog.Bundle, baseLocale string) Report {
	rep := Report{BaseLocale: baseLocale}
	for _, locale := range bundle.Locales() {
		rep.Locales = append(rep.Locales, compareLocale(bundle, baseLocale, locale))
	}
	return rep
}

func compareLocale(bundle *catalog.Bundle, baseLocale, locale string) localeStatus {
	base := bundle.LocaleMessages(baseLocale)
	target := bundle.LocaleMessages(locale)
	missing := keyDiff(base, target)
	extra := keyDiff(target, base)

	status := localeStatus{
		Locale:      locale,
		BaseKeys:    len(base),
		Translated:  len(base) - len(missing),
		Missing:     len(missing),
		Extra:       len(extra),
		MissingKeys: missing,
		ExtraKeys:   extra,
	}
	status.Completion = percent(status.Translated, status.BaseKeys)

	namespaces := lo.Uniq(append(bundle.Namespaces(baseLocale), bundle.Namespaces(locale)...))
	sort.Strings(namespaces)
	for _, namespace := range namespaces {
		baseNS := bundle.NamespaceMessages(baseLocale, namespace)
		targetNS := bundle.NamespaceMessages(locale, namespace)
		nsMissing := len(keyDiff(baseNS, targetNS))
		translated := len(baseNS) - nsMissing
		status.Namespaces = append(status.Namespaces, namespaceStatus{
			Namespace:  namespace,
			BaseKeys:   len(baseNS),
			Translated: translated,
			Missing:    nsMissing,
			Extra:      len(keyDiff(targetNS, baseNS)),
			Completion: percent(translated, len(baseNS)),
		})
	}
	return status
}

// WriteJSON writes rep as indented JSON to path.
func WriteJSON(path string, rep Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

const tableHeader = "| %s | Base Keys | Translated | Missing | Extra | Completion |\n| --- | ---: | ---: | ---: | ---: | ---: |\n"

// WriteMarkdown writes rep as a markdown page to path.
func WriteMarkdown(path string, rep Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Translation Status\n\nGenerated by `go run ./cmd/i18n-status`. Base locale: `%s`.\n\n", rep.BaseLocale)

	fmt.Fprintf(&b, tableHeader, "Locale")
	for _, locale := range rep.Locales {
		fmt.Fprintf(&b, "| `%s` | %d | %d | %d | %d | %.1f%% |\n", locale.Locale, locale.BaseKeys, locale.Translated, locale.Missing, locale.Extra, locale.Completion)
	}

	for _, locale := range rep.Locales {
		fmt.Fprintf(&b, "\n## `%s`\n\n", locale.Locale)
		fmt.Fprintf(&b, tableHeader, "Namespace")
		for _, ns := range locale.Namespaces {
			fmt.Fprintf(&b, "| `%s` | %d | %d | %d | %d | %.1f%% |\n", ns.Namespace, ns.BaseKeys, ns.Translated, ns.Missing, ns.Extra, ns.Completion)
		}
		writeKeyList(&b, "Missing", locale.MissingKeys)
		writeKeyList(&b, "Extra", locale.ExtraKeys)
	}
	return writeFile(path, []byte(b.String()))
}

func writeKeyList(b *strings.Builder, title string, keys []string) {
	if len(keys) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s Keys\n\n", title)
	for _, key := range keys {
		fmt.Fprintf(b, "- `%s`\n", key)
	}
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// keyDiff lists the keys of from that into lacks, sorted.
func keyDiff(from, into map[string]string) []string {
	out := []string{}
	for key := range from {
		if _, ok := into[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func percent(numerator int, denominator int) float64 {
	if denominator <= 0 {
		return 100
	}
	value := float64(numerator) * 100 / float64(denominator)
	return math.Round(value*10) / 10
}
