package main

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"walrusup/internal/ledger"
	"walrusup/internal/testsupport"
)

func TestHistoryCommandListsUploads(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.WithMetadata(`{"bronzeNFT":[{"name":"A"}]}`),
		testsupport.WithAssets("bronze", "1.png"),
		testsupport.WithWalrusStub(
			testsupport.NewlyCreated("blobA", 3),
			testsupport.NewlyCreated("blobM", 3),
		),
	)
	if _, stderr, err := runCLI(t, []string{"upload"}, env.configPath); err != nil {
		t.Fatalf("upload: %v\nstderr: %s", err, stderr)
	}

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "blobA")
	requireContains(t, out, "Manifest")

	out, _, err = runCLI(t, []string{"history", "--output", "yaml", "--limit", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("history yaml: %v", err)
	}
	var entries []ledger.Entry
	if err := yaml.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode yaml: %v (%q)", err, out)
	}
	if len(entries) != 1 || entries[0].BlobID != "blobM" || entries[0].Tier != "manifest" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestHistoryCommandEmpty(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithWalrusStub())
	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No uploads recorded")
}

func TestHistoryCommandLedgerDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithWalrusStub(), testsupport.WithLedgerDisabled())
	_, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "ledger is disabled") {
		t.Fatalf("expected disabled ledger error, got %v", err)
	}
}
