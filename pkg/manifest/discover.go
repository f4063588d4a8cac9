package manifest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// DefaultPattern matches a Dependencies file in any directory.
const DefaultPattern = "**/Dependencies"

const maxConcurrentReads = 8

// Discover finds manifest files under root matching pattern and returns their
// contents keyed by component, the manifest's directory relative to root.
// A manifest at root itself belongs to component ".".
func Discover(ctx context.Context, root, pattern string) (map[string]string, error) {
	return DiscoverFS(ctx, os.DirFS(root), pattern)
}

// DiscoverFS is Discover over an arbitrary file system.
func DiscoverFS(ctx context.Context, fsys fs.FS, pattern string) (map[string]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid dependency file pattern %q", pattern)
	}

	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to find manifests matching %q: %w", pattern, err)
	}
	slices.Sort(matches)

	contents := make([]string, len(matches))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, match := range matches {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(fsys, match)
			if err != nil {
				return fmt.Errorf("cannot read dependency manifest %s: %w", match, err)
			}
			contents[i] = string(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	manifests := make(map[string]string, len(matches))
	for i, match := range matches {
		manifests[path.Dir(match)] = contents[i]
	}

	slog.Debug("discovered manifests", "pattern", pattern, "count", len(manifests))
	return manifests, nil
}

// Resolve maps changed file paths to the components owning them. A file
// belongs to the component with the longest path that contains it; files
// outside every component are dropped. The result is sorted and unique.
func Resolve(components, files []string) []string {
	owners := make(map[string]struct{})
	for _, file := range files {
		file = strings.TrimSpace(file)
		if file == "" {
			continue
		}
		file = path.Clean(file)

		best, depth := "", -1
		for _, c := range components {
			if !contains(c, file) {
				continue
			}
			if d := length(c); d > depth {
				best, depth = c, d
			}
		}
		if depth >= 0 {
			owners[best] = struct{}{}
		}
	}

	result := make([]string, 0, len(owners))
	for c := range owners {
		result = append(result, c)
	}
	slices.Sort(result)
	return result
}

// length of a component path, with the repository root being the shortest.
func length(component string) int {
	if component == "." {
		return 0
	}
	return len(component)
}

func contains(component, file string) bool {
	if component == "." {
		return true
	}
	return file == component || strings.HasPrefix(file, component+"/")
}
