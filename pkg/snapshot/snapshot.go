// Package snapshot captures a text bundle of one commit or a commit range:
// oneline history, the changed files with a diffstat, and their contents at
// the target commit.
package snapshot

import (
	"fmt"
	"unicode/utf8"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/src-d/enry/v2"

	"github.com/ctxpack/ctxpack/pkg/gitlib"
)

// shortHistoryLen abbreviates hashes in history lines the way oneline logs do.
const shortHistoryLen = 7

// FileChange is one changed file in the snapshot.
type FileChange struct {
	Path    string
	Added   int
	Removed int
	Deleted bool
	Binary  bool
	Content []byte
}

// Snapshot holds everything the bundle renders.
type Snapshot struct {
	BaseShort string
	ThisShort string
	Single    bool
	History   []string
	Files     []FileChange
}

// Take resolves the rev specs and collects the snapshot. An empty baseSpec,
// or one resolving to the same commit as thisSpec, selects single mode.
func Take(repo *gitlib.Repository, baseSpec, thisSpec string) (*Snapshot, error) {
	thisCommit, thisShort, err := repo.ResolveRevision(thisSpec)
	if err != nil {
		return nil, err
	}
	defer thisCommit.Free()

	snap := &Snapshot{ThisShort: thisShort}

	var baseCommit *gitlib.Commit

	if baseSpec != "" {
		base, baseShort, resolveErr := repo.ResolveRevision(baseSpec)
		if resolveErr != nil {
			return nil, resolveErr
		}
		defer base.Free()

		if base.Hash() != thisCommit.Hash() {
			baseCommit = base
			snap.BaseShort = baseShort
		}
	}

	snap.Single = baseCommit == nil

	if snap.Single {
		snap.History = []string{historyLine(thisCommit)}
	} else {
		history, walkErr := rangeHistory(repo, thisCommit.Hash(), baseCommit.Hash())
		if walkErr != nil {
			return nil, walkErr
		}

		snap.History = history
	}

	oldTree, err := diffBase(repo, thisCommit, baseCommit)
	if err != nil {
		return nil, err
	}

	if oldTree != nil {
		defer oldTree.Free()
	}

	thisTree, err := thisCommit.Tree()
	if err != nil {
		return nil, err
	}
	defer thisTree.Free()

	files, err := changedFiles(repo, oldTree, thisTree)
	if err != nil {
		return nil, err
	}

	snap.Files = files

	return snap, nil
}

// OutputName derives the snapshot file name: "<this>.txt" in single mode,
// "<base>-<this>.txt" in range mode.
func (s *Snapshot) OutputName() string {
	if s.Single {
		return s.ThisShort + ".txt"
	}

	return s.BaseShort + "-" + s.ThisShort + ".txt"
}

// diffBase picks the tree the target commit is diffed against: the range
// base, or in single mode the first parent (nil for a root commit).
func diffBase(repo *gitlib.Repository, thisCommit, baseCommit *gitlib.Commit) (*gitlib.Tree, error) {
	if baseCommit != nil {
		return baseCommit.Tree()
	}

	if thisCommit.NumParents() == 0 {
		return nil, nil
	}

	parent, err := repo.LookupCommit(thisCommit.ParentHash(0))
	if err != nil {
		return nil, err
	}
	defer parent.Free()

	return parent.Tree()
}

// rangeHistory lists base..this, newest first.
func rangeHistory(repo *gitlib.Repository, this, base gitlib.Hash) ([]string, error) {
	walk, err := repo.Walk()
	if err != nil {
		return nil, err
	}
	defer walk.Free()

	walk.Sorting(git2go.SortTime | git2go.SortTopological)

	if err = walk.Push(this); err != nil {
		return nil, err
	}

	if err = walk.Hide(base); err != nil {
		return nil, err
	}

	var history []string

	for {
		hash, walkErr := walk.Next()
		if walkErr != nil {
			break
		}

		commit, lookupErr := repo.LookupCommit(hash)
		if lookupErr != nil {
			return nil, lookupErr
		}

		history = append(history, historyLine(commit))
		commit.Free()
	}

	return history, nil
}

func historyLine(commit *gitlib.Commit) string {
	return fmt.Sprintf("%s %s", commit.Hash().String()[:shortHistoryLen], commit.Summary())
}

// changedFiles walks the tree diff and collects each changed file with its
// diffstat and its contents at the target commit.
func changedFiles(repo *gitlib.Repository, oldTree, newTree *gitlib.Tree) ([]FileChange, error) {
	diff, err := repo.DiffTreeToTree(oldTree, newTree)
	if err != nil {
		return nil, err
	}
	defer diff.Free()

	numDeltas, err := diff.NumDeltas()
	if err != nil {
		return nil, err
	}

	files := make([]FileChange, 0, numDeltas)

	for i := range numDeltas {
		delta, deltaErr := diff.Delta(i)
		if deltaErr != nil {
			return nil, deltaErr
		}

		change, changeErr := buildChange(repo, delta)
		if changeErr != nil {
			return nil, changeErr
		}

		files = append(files, change)
	}

	return files, nil
}

func buildChange(repo *gitlib.Repository, delta gitlib.DiffDelta) (FileChange, error) {
	change := FileChange{
		Path:    delta.NewFile.Path,
		Deleted: delta.Status == git2go.DeltaDeleted,
	}

	if change.Deleted {
		change.Path = delta.OldFile.Path
	}

	oldData, err := blobData(repo, delta.OldFile.Hash)
	if err != nil {
		return FileChange{}, err
	}

	newData, err := blobData(repo, delta.NewFile.Hash)
	if err != nil {
		return FileChange{}, err
	}

	change.Content = newData

	if enry.IsBinary(oldData) || enry.IsBinary(newData) {
		change.Binary = true

		return change, nil
	}

	change.Added, change.Removed = diffStat(oldData, newData)

	return change, nil
}

func blobData(repo *gitlib.Repository, hash gitlib.Hash) ([]byte, error) {
	if hash.IsZero() {
		return nil, nil
	}

	blob, err := repo.LookupBlob(hash)
	if err != nil {
		return nil, err
	}
	defer blob.Free()

	data := make([]byte, len(blob.Contents()))
	copy(data, blob.Contents())

	return data, nil
}

// diffStat counts added and removed lines between two blob contents.
func diffStat(oldData, newData []byte) (added, removed int) {
	dmp := diffmatchpatch.New()
	src, dst, _ := dmp.DiffLinesToRunes(string(oldData), string(newData))
	diffs := dmp.DiffMainRunes(src, dst, false)

	for _, edit := range diffs {
		switch edit.Type {
		case diffmatchpatch.DiffInsert:
			added += utf8.RuneCountInString(edit.Text)
		case diffmatchpatch.DiffDelete:
			removed += utf8.RuneCountInString(edit.Text)
		case diffmatchpatch.DiffEqual:
		}
	}

	return added, removed
}
