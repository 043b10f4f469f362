package testsupport

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// StubResponse scripts one invocation of the stub Walrus CLI.
type StubResponse struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// NewlyCreated renders a store response for a freshly created blob.
func NewlyCreated(blobID string, endEpoch int64) StubResponse {
	return StubResponse{Stdout: fmt.Sprintf(
		`{"newlyCreated":{"blobObject":{"id":"0x%s","blobId":%q,"storage":{"startEpoch":1,"endEpoch":%d}},"cost":1}}`,
		blobID, blobID, endEpoch)}
}

// AlreadyCertified renders a store response for content already on the network.
func AlreadyCertified(blobID string, endEpoch int64) StubResponse {
	return StubResponse{Stdout: fmt.Sprintf(
		`{"alreadyCertified":{"blobId":%q,"endEpoch":%d,"eventOrObject":{"Event":{}}}}`,
		blobID, endEpoch)}
}

const walrusStubScript = `#!/bin/sh
dir="$(dirname "$0")/.walrus-stub"
cat >> "$dir/requests.log"
echo >> "$dir/requests.log"
n=$(cat "$dir/count" 2>/dev/null || echo 0)
n=$((n + 1))
echo "$n" > "$dir/count"
if [ -f "$dir/$n.stdout" ]; then
  cat "$dir/$n.stdout"
  cat "$dir/$n.stderr" >&2
  exit "$(cat "$dir/$n.code")"
fi
printf '{"newlyCreated":{"blobObject":{"id":"0x%s","blobId":"blob-%s","storage":{"startEpoch":1,"endEpoch":5}}}}' "$n" "$n"
`

// InstallWalrusStub writes a shell script at path that answers successive
// invocations with responses in order. Once they are exhausted it returns a
// newly created blob "blob-<n>" with end epoch 5. Every request read from
// stdin is appended to a log readable through StubRequests.
func InstallWalrusStub(t testing.TB, path string, responses ...StubResponse) {
	t.Helper()

	stateDir := filepath.Join(filepath.Dir(path), ".walrus-stub")
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		t.Fatalf("mkdir stub state: %v", err)
	}
	for i, resp := range responses {
		n := i + 1
		files := map[string]string{
			fmt.Sprintf("%d.stdout", n): resp.Stdout,
			fmt.Sprintf("%d.stderr", n): resp.Stderr,
			fmt.Sprintf("%d.code", n):   fmt.Sprintf("%d", resp.ExitCode),
		}
		for name, content := range files {
			if err := os.WriteFile(filepath.Join(stateDir, name), []byte(content), 0o644); err != nil {
				t.Fatalf("write stub response: %v", err)
			}
		}
	}
	if err := os.WriteFile(path, []byte(walrusStubScript), 0o755); err != nil {
		t.Fatalf("write walrus stub: %v", err)
	}
}

// StubRequests returns the JSON requests received by the stub installed at
// binary, in invocation order.
func StubRequests(t testing.TB, binary string) []string {
	t.Helper()

	f, err := os.Open(filepath.Join(filepath.Dir(binary), ".walrus-stub", "requests.log"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("open stub requests: %v", err)
	}
	defer f.Close()

	var requests []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			requests = append(requests, line)
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("read stub requests: %v", err)
	}
	return requests
}
