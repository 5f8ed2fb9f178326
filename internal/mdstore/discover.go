package mdstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/huangsam/ctmeta/internal/contract"
)

// DiscoverInputs finds parser output files under roots matching pattern.
// Files whose absolute path is listed in skip, or whose root-relative path
// matches an exclude pattern, are left out. A root may also be a single file.
// Missing roots are skipped with a warning. The result is sorted and unique.
func DiscoverInputs(roots []string, pattern string, excludes []string, skip []string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid input pattern %q", pattern)
	}

	skipped := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		if s == "" {
			continue
		}
		if abs, err := filepath.Abs(s); err == nil {
			skipped[filepath.Clean(abs)] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path, rel string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		abs = filepath.Clean(abs)
		if _, ok := skipped[abs]; ok {
			return
		}
		if contract.ShouldIgnore(filepath.ToSlash(rel), excludes) {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if errors.Is(err, os.ErrNotExist) {
			contract.Logger().WithField("root", root).Warn("input root does not exist, skipping")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root, filepath.Base(root))
			continue
		}

		matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
		for _, m := range matches {
			add(filepath.Join(root, filepath.FromSlash(m)), m)
		}
	}

	sort.Strings(files)
	return files, nil
}
