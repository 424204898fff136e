package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// RevWalk wraps a libgit2 revision walker.
type RevWalk struct {
	walk *git2go.RevWalk
	repo *Repository
}

// Push adds a commit to start walking from.
func (w *RevWalk) Push(hash Hash) error {
	err := w.walk.Push(hash.ToOid())
	if err != nil {
		return fmt.Errorf("push to revwalk: %w", err)
	}

	return nil
}

// Hide excludes a commit and its ancestors from the walk.
func (w *RevWalk) Hide(hash Hash) error {
	err := w.walk.Hide(hash.ToOid())
	if err != nil {
		return fmt.Errorf("hide from revwalk: %w", err)
	}

	return nil
}

// Sorting sets the sorting mode for the walker.
func (w *RevWalk) Sorting(mode git2go.SortType) {
	w.walk.Sorting(mode)
}

// Next returns the next commit hash in the walk. The error wraps the libgit2
// iteration-over condition when the walk is exhausted.
func (w *RevWalk) Next() (Hash, error) {
	oid := new(git2go.Oid)

	err := w.walk.Next(oid)
	if err != nil {
		return Hash{}, fmt.Errorf("revwalk next: %w", err)
	}

	return HashFromOid(oid), nil
}

// Free releases the walker resources.
func (w *RevWalk) Free() {
	if w.walk != nil {
		w.walk.Free()
		w.walk = nil
	}
}
