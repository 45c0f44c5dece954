package i18nstatus

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/louisbranch/lanparty/internal/platform/i18n/catalog"
)

func testBundle(t *testing.T) *catalog.Bundle {
	t.Helper()
	bundle, err := catalog.LoadFromFS(fstest.MapFS{
		"locales/en/admin.yaml": &fstest.MapFile{Data: []byte(`locale: "en"
namespace: "admin"
messages:
  "admin.title": "Admin"
  "admin.save": "Save"
`)},
		"locales/de/admin.yaml": &fstest.MapFile{Data: []byte(`locale: "de"
namespace: "admin"
messages:
  "admin.title": "Verwaltung"
  "admin.extra": "Extra"
`)},
	})
	if err != nil {
		t.Fatalf("load bundle: %v", err)
	}
	return bundle
}

func TestBuildReport(t *testing.T) {
	rep := BuildReport(testBundle(t), "en")
	if rep.BaseLocale != "en" || len(rep.Locales) != 2 {
		t.Fatalf("report = %+v", rep)
	}
	de := rep.Locales[0]
	if de.Locale != "de" {
		t.Fatalf("first locale = %q, want de", de.Locale)
	}
	if de.Translated != 1 || de.Missing != 1 || de.Extra != 1 || de.Completion != 50 {
		t.Fatalf("de status = %+v", de)
	}
	if len(de.MissingKeys) != 1 || de.MissingKeys[0] != "admin.save" {
		t.Fatalf("missing keys = %v", de.MissingKeys)
	}
	if en := rep.Locales[1]; en.Completion != 100 || en.Missing != 0 {
		t.Fatalf("en status = %+v", en)
	}
}

func TestWriteReports(t *testing.T) {
	rep := BuildReport(testBundle(t), "en")
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "out", "status.json")
	mdPath := filepath.Join(dir, "out", "status.md")

	if err := WriteJSON(jsonPath, rep); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := WriteMarkdown(mdPath, rep); err != nil {
		t.Fatalf("write markdown: %v", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(decoded.Locales) != 2 {
		t.Fatalf("decoded = %+v", decoded)
	}

	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	for _, want := range []string{"# Translation Status", "| `de` | 2 | 1 | 1 | 1 | 50.0% |", "- `admin.save`"} {
		if !strings.Contains(string(md), want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRunEmbeddedCatalogsStrict(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		BaseLocale:  catalog.BaseLocale,
		MarkdownOut: filepath.Join(dir, "status.md"),
		JSONOut:     filepath.Join(dir, "status.json"),
		Strict:      true,
	}
	if err := Run(cfg, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunUnknownBaseLocale(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{BaseLocale: "fr", MarkdownOut: filepath.Join(dir, "a.md"), JSONOut: filepath.Join(dir, "a.json")}
	if err := Run(cfg, nil); err == nil {
		t.Fatal("expected error for unknown base locale")
	}
}

func TestPercent(t *testing.T) {
	if got := percent(1, 3); got != 33.3 {
		t.Fatalf("percent(1,3) = %v", got)
	}
	if got := percent(0, 0); got != 100 {
		t.Fatalf("percent(0,0) = %v", got)
	}
}
