package main

import (
	"os"
	"path/filepath"
	"testing"

	"walrusup/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithWalrusStub())

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Tiers: 3")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowPrintsTOML(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithWalrusStub())
	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[walrus]")
	requireContains(t, out, env.cfg.Walrus.Binary)
	requireContains(t, out, "[[tiers]]")
}

func TestInvalidConfigFailsBeforeCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithWalrusStub())
	env.cfg.Match.Strategy = "fuzzy"
	writeTestConfig(t, env.configPath, env.cfg)
	_, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err == nil {
		t.Fatal("expected invalid config error")
	}
	requireContains(t, err.Error(), "match.strategy")
}
