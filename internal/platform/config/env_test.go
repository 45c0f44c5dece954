package config

import (
	"errors"
	"strings"
	"testing"
)

type envTestConfig struct {
	Port int `env:"LANPARTY_TEST_PORT" envDefault:"123"`
}

type validatedConfig struct {
	Name string `env:"LANPARTY_TEST_NAME"`
}

func (c *validatedConfig) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("LANPARTY_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvRunsValidate(t *testing.T) {
	t.Setenv("LANPARTY_TEST_NAME", "")

	var cfg validatedConfig
	err := ParseEnv(&cfg)
	if err == nil || !strings.Contains(err.Error(), "validate config:") {
		t.Fatalf("expected validate error, got %v", err)
	}
}

func TestParseEnvWithLookup(t *testing.T) {
	var cfg validatedConfig
	if err := ParseEnvWithLookup(&cfg, map[string]string{"LANPARTY_TEST_NAME": "acmecon"}); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Name != "acmecon" {
		t.Fatalf("Name = %q, want %q", cfg.Name, "acmecon")
	}
}
