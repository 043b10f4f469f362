package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// pngSignature is enough for content sniffing to report image/png.
const pngSignature = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"

// WriteAsset creates path and its parent directories. Files named *.png start
// with a PNG signature; every file ends with its own base name so no two
// assets share content.
func WriteAsset(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	var content strings.Builder
	if strings.EqualFold(filepath.Ext(path), ".png") {
		content.WriteString(pngSignature)
	}
	content.WriteString(filepath.Base(path))
	if err := os.WriteFile(path, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
