package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// Repository wraps a libgit2 repository.
type Repository struct {
	repo *git2go.Repository
	path string
}

// OpenRepository opens the git repository at path.
func OpenRepository(path string) (*Repository, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Repository{repo: repo, path: path}, nil
}

// Path returns the repository path.
func (r *Repository) Path() string {
	return r.path
}

// Free releases the repository resources.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// Head returns the HEAD reference target.
func (r *Repository) Head() (Hash, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return Hash{}, fmt.Errorf("get HEAD: %w", err)
	}
	defer ref.Free()

	return HashFromOid(ref.Target()), nil
}

// ResolveRevision resolves a rev spec ("HEAD", "HEAD~2", a branch, a tag, an
// abbreviated hash) to the commit it names and its abbreviated id.
func (r *Repository) ResolveRevision(spec string) (*Commit, string, error) {
	obj, err := r.repo.RevparseSingle(spec)
	if err != nil {
		return nil, "", fmt.Errorf("resolve revision %q: %w", spec, err)
	}
	defer obj.Free()

	short, err := obj.ShortId()
	if err != nil {
		return nil, "", fmt.Errorf("abbreviate revision %q: %w", spec, err)
	}

	peeled, err := obj.Peel(git2go.ObjectCommit)
	if err != nil {
		return nil, "", fmt.Errorf("peel revision %q to commit: %w", spec, err)
	}
	defer peeled.Free()

	commit, err := r.repo.LookupCommit(peeled.Id())
	if err != nil {
		return nil, "", fmt.Errorf("lookup commit for %q: %w", spec, err)
	}

	return &Commit{commit: commit, repo: r}, short, nil
}

// LookupCommit returns the commit with the given hash.
func (r *Repository) LookupCommit(hash Hash) (*Commit, error) {
	commit, err := r.repo.LookupCommit(hash.ToOid())
	if err != nil {
		return nil, fmt.Errorf("lookup commit: %w", err)
	}

	return &Commit{commit: commit, repo: r}, nil
}

// LookupBlob returns the blob with the given hash.
func (r *Repository) LookupBlob(hash Hash) (*Blob, error) {
	blob, err := r.repo.LookupBlob(hash.ToOid())
	if err != nil {
		return nil, fmt.Errorf("lookup blob: %w", err)
	}

	return &Blob{blob: blob}, nil
}

// Walk creates a new revision walker.
func (r *Repository) Walk() (*RevWalk, error) {
	walk, err := r.repo.Walk()
	if err != nil {
		return nil, fmt.Errorf("create revwalk: %w", err)
	}

	return &RevWalk{walk: walk, repo: r}, nil
}

// DiffTreeToTree computes the diff between two trees. Either side may be nil
// for an empty tree.
func (r *Repository) DiffTreeToTree(oldTree, newTree *Tree) (*Diff, error) {
	opts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return nil, fmt.Errorf("get diff options: %w", err)
	}

	var oldT, newT *git2go.Tree
	if oldTree != nil {
		oldT = oldTree.tree
	}

	if newTree != nil {
		newT = newTree.tree
	}

	diff, err := r.repo.DiffTreeToTree(oldT, newT, &opts)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}

	return &Diff{diff: diff}, nil
}
