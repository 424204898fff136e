package trace

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolver maps import references to files on disk under a project root.
// References that do not resolve to a file under the root are treated as
// external dependencies.
type Resolver struct {
	root string
}

// NewResolver creates a resolver for the given project root. The root is
// expected to be an absolute, symlink-resolved directory path.
func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// Resolve maps an import reference to a file path under the root.
// fromDir is the directory of the importing file, used as the base for
// relative imports. The second return value is false when the reference
// is external (no matching file under the root).
//
// A module file ("a/b.py") deterministically wins over a same-named
// package ("a/b/__init__.py").
func (r *Resolver) Resolve(ref ImportRef, fromDir string) (string, bool) {
	if ref.Module == "" {
		return "", false
	}

	base := r.root
	if ref.Level > 0 {
		base = fromDir
		for range ref.Level - 1 {
			base = filepath.Dir(base)
		}
	}

	parts := strings.Split(ref.Module, ".")

	stem := filepath.Join(append([]string{base}, parts...)...)

	if path, ok := r.candidate(stem + ".py"); ok {
		return path, true
	}

	if path, ok := r.candidate(filepath.Join(stem, "__init__.py")); ok {
		return path, true
	}

	return "", false
}

// candidate checks that the path is a regular file inside the root.
func (r *Resolver) candidate(path string) (string, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", false
	}

	info, err := os.Stat(resolved)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	if !underRoot(r.root, resolved) {
		return "", false
	}

	return resolved, true
}

// underRoot reports whether path lies inside root (or is root itself).
func underRoot(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
