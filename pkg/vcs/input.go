package vcs

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// ReadFileList reads changed file paths, one per line.
func ReadFileList(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read changed files: %w", err)
	}
	return lines(string(data)), nil
}

// ParsePatch returns the paths touched by a unified diff. Both sides of a
// rename are reported; created and deleted files report their one real path.
func ParsePatch(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read patch: %w", err)
	}

	fileDiffs, err := diff.ParseMultiFileDiff(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse patch: %w", err)
	}

	var files []string
	for _, fd := range fileDiffs {
		for _, name := range []string{fd.OrigName, fd.NewName} {
			if p := patchPath(name); p != "" && !slices.Contains(files, p) {
				files = append(files, p)
			}
		}
	}
	return files, nil
}

func patchPath(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name == "/dev/null" {
		return ""
	}
	for _, prefix := range []string{"a/", "b/"} {
		if rest, ok := strings.CutPrefix(name, prefix); ok {
			return rest
		}
	}
	return name
}
