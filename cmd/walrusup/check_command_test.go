package main

import (
	"os"
	"testing"

	"walrusup/internal/testsupport"
)

func TestCheckCommandPasses(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.WithMetadata(cliMetadata),
		testsupport.WithWalrusStub(),
	)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "== Preflight ==")
	requireContains(t, out, "[OK]")
	requireContains(t, out, env.configPath)
}

func TestCheckCommandReportsFailures(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.WithMetadata(cliMetadata),
		testsupport.WithWalrusStub(),
	)
	if err := os.RemoveAll(env.cfg.Tiers[0].Dir); err != nil {
		t.Fatalf("remove tier dir: %v", err)
	}

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected check to fail")
	}
	requireContains(t, err.Error(), "checks failed")
	requireContains(t, out, "[FAIL]")
}
