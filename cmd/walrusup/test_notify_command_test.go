package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"walrusup/internal/testsupport"
)

func TestTestNotifyDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithWalrusStub())
	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Notifications disabled")
}

func TestTestNotifySends(t *testing.T) {
	var title string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title = r.Header.Get("Title")
	}))
	defer server.Close()

	env := setupCLITestEnv(t, testsupport.WithWalrusStub())
	env.cfg.Notifications.NtfyTopic = server.URL
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent")
	if title != "walrusup - Test" {
		t.Fatalf("unexpected title %q", title)
	}
}
