package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ListRegularFiles returns the regular files directly inside dir, sorted by
// name. Symlinks are followed; subdirectories, sockets, and dangling links are
// skipped. Dot-files are skipped when skipHidden is set.
func ListRegularFiles(dir string, skipHidden bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if skipHidden && strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		mode := entry.Type()
		if mode&os.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			mode = info.Mode()
		}
		if !mode.IsRegular() {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// Stem returns the base name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadableFile reports an error when path is missing, a directory, or cannot
// be opened for reading.
func ReadableFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

// Describe returns the size of path and its content type sniffed from the
// leading bytes. Unknown content reports application/octet-stream.
func Describe(path string) (int64, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, "", err
	}
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return info.Size(), "", fmt.Errorf("detect content type of %s: %w", path, err)
	}
	return info.Size(), mtype.String(), nil
}
