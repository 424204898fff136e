// Package trace discovers the transitive closure of local Python imports
// starting from a set of entry files. Only imports that resolve to files
// under a designated project root are followed; everything else is treated
// as an external dependency and skipped.
package trace

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Sentinel errors for traversal setup.
var (
	ErrNoEntries     = errors.New("no entry files given")
	ErrNotADirectory = errors.New("project root is not a directory")
	ErrEntryNotFound = errors.New("entry file not found")
	ErrOutsideRoot   = errors.New("entry file lies outside the project root")
)

// Tracer computes import closures under a fixed project root.
type Tracer struct {
	root     string
	parser   *ImportParser
	resolver *Resolver
}

// NewTracer creates a tracer for the given project root.
func NewTracer(root string) (*Tracer, error) {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	resolved, err = filepath.Abs(resolved)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("stat project root: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, root)
	}

	return &Tracer{
		root:     resolved,
		parser:   NewImportParser(),
		resolver: NewResolver(resolved),
	}, nil
}

// Root returns the resolved project root.
func (t *Tracer) Root() string {
	return t.root
}

// Trace returns every file reachable from the entry files by following
// local imports, in breadth-first discovery order with the entries first.
// Each file appears exactly once; the visited set breaks import cycles.
//
// Unresolvable imports are silently external. A file that fails to parse
// stays in the result but contributes no further edges.
func (t *Tracer) Trace(entries []string) ([]string, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	queue, err := t.canonicalEntries(entries)
	if err != nil {
		return nil, err
	}

	visited := make(map[string]bool, len(queue))
	result := make([]string, 0, len(queue))

	for _, entry := range queue {
		if !visited[entry] {
			visited[entry] = true
			result = append(result, entry)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, dep := range t.dependencies(current) {
			if visited[dep] {
				continue
			}

			visited[dep] = true
			result = append(result, dep)
			queue = append(queue, dep)
		}
	}

	return result, nil
}

// canonicalEntries resolves the entry paths and verifies each one is a
// readable file under the root.
func (t *Tracer) canonicalEntries(entries []string) ([]string, error) {
	canonical := make([]string, 0, len(entries))

	for _, entry := range entries {
		resolved, err := filepath.EvalSymlinks(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, entry)
		}

		resolved, err = filepath.Abs(resolved)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, entry)
		}

		info, err := os.Stat(resolved)
		if err != nil || !info.Mode().IsRegular() {
			return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, entry)
		}

		if !underRoot(t.root, resolved) {
			return nil, fmt.Errorf("%w: %s", ErrOutsideRoot, entry)
		}

		canonical = append(canonical, resolved)
	}

	return canonical, nil
}

// dependencies returns the local files imported by one file, in source
// order. Read or parse failures degrade to zero edges.
func (t *Tracer) dependencies(path string) []string {
	source, err := os.ReadFile(path)
	if err != nil {
		log.Printf("warning: could not read %s, skipping: %v", path, err)

		return nil
	}

	refs, err := t.parser.Extract(source)
	if err != nil {
		log.Printf("warning: could not parse %s, skipping: %v", path, err)

		return nil
	}

	fromDir := filepath.Dir(path)

	var deps []string

	for _, ref := range refs {
		if resolved, ok := t.resolver.Resolve(ref, fromDir); ok {
			deps = append(deps, resolved)
		}
	}

	return deps
}

// Trace is a convenience wrapper that builds a one-shot tracer.
func Trace(root string, entries []string) ([]string, error) {
	tracer, err := NewTracer(root)
	if err != nil {
		return nil, err
	}

	return tracer.Trace(entries)
}
