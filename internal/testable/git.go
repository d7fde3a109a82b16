package testable

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitOpener abstracts opening a git repository. Production code uses
// RealGitOpener; tests inject a mock to avoid filesystem dependencies.
type GitOpener interface {
	PlainOpen(path string) (GitRepository, error)
}

// GitRepository abstracts the subset of *git.Repository methods used by
// modgraph. This keeps the interface minimal and easy to mock.
type GitRepository interface {
	Head() (*plumbing.Reference, error)
	ResolveRevision(rev plumbing.Revision) (*plumbing.Hash, error)
	CommitObject(h plumbing.Hash) (*object.Commit, error)
	// Root returns the absolute path of the working tree.
	Root() (string, error)
}

// RealGitOpener is the production implementation of GitOpener.
// It delegates to git.PlainOpenWithOptions with parent detection, so a scan
// root below the repository root still finds its repository.
type RealGitOpener struct{}

// PlainOpen opens the git repository containing path.
func (RealGitOpener) PlainOpen(path string) (GitRepository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	return &RealGitRepository{repo: repo}, nil
}

// RealGitRepository wraps *git.Repository to satisfy GitRepository.
type RealGitRepository struct {
	repo *git.Repository
}

// Head returns the reference where HEAD is pointing to.
func (r *RealGitRepository) Head() (*plumbing.Reference, error) {
	return r.repo.Head()
}

// ResolveRevision resolves a revision (branch, tag, hash, HEAD~n) to a hash.
func (r *RealGitRepository) ResolveRevision(rev plumbing.Revision) (*plumbing.Hash, error) {
	return r.repo.ResolveRevision(rev)
}

// CommitObject returns the commit with the given hash.
func (r *RealGitRepository) CommitObject(h plumbing.Hash) (*object.Commit, error) {
	return r.repo.CommitObject(h)
}

// Root returns the working tree root.
func (r *RealGitRepository) Root() (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", err
	}
	return wt.Filesystem.Root(), nil
}

// DefaultGitOpener is the production GitOpener used as default.
var DefaultGitOpener GitOpener = RealGitOpener{}

// Compile-time interface checks.
var _ GitOpener = RealGitOpener{}
var _ GitRepository = (*RealGitRepository)(nil)
