package testable

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// MockGitOpener is a test double for GitOpener.
// Set OpenFunc to control PlainOpen behavior. If nil, PlainOpen returns
// the Repo field (or ErrRepositoryNotExists if Repo is nil).
type MockGitOpener struct {
	// Repo is the repository returned by PlainOpen when OpenFunc is nil.
	Repo GitRepository

	// OpenErr is the error returned by PlainOpen when OpenFunc is nil.
	OpenErr error

	// OpenFunc, if set, is called instead of using Repo/OpenErr.
	OpenFunc func(path string) (GitRepository, error)

	// OpenCalls records the paths passed to PlainOpen.
	OpenCalls []string
}

// PlainOpen records the call and delegates to OpenFunc or returns Repo/OpenErr.
func (m *MockGitOpener) PlainOpen(path string) (GitRepository, error) {
	m.OpenCalls = append(m.OpenCalls, path)
	if m.OpenFunc != nil {
		return m.OpenFunc(path)
	}
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	if m.Repo != nil {
		return m.Repo, nil
	}
	return nil, git.ErrRepositoryNotExists
}

// MockGitRepository is a test double for GitRepository.
// Each method has a corresponding field for the return value and error.
type MockGitRepository struct {
	// HeadRef is returned by Head().
	HeadRef *plumbing.Reference
	// HeadErr is the error returned by Head().
	HeadErr error

	// Revisions maps revision strings to hashes for ResolveRevision().
	Revisions map[string]plumbing.Hash
	// ResolveErr is returned by ResolveRevision() for unknown revisions.
	ResolveErr error

	// CommitObjects maps hashes to commits for CommitObject().
	CommitObjects map[plumbing.Hash]*object.Commit
	// CommitObjectErr is the default error returned by CommitObject() when
	// the hash is not found in CommitObjects.
	CommitObjectErr error

	// RootDir and RootErr are returned by Root().
	RootDir string
	RootErr error
}

// Head returns HeadRef and HeadErr.
func (m *MockGitRepository) Head() (*plumbing.Reference, error) {
	return m.HeadRef, m.HeadErr
}

// ResolveRevision looks up rev in Revisions, falling back to ResolveErr.
func (m *MockGitRepository) ResolveRevision(rev plumbing.Revision) (*plumbing.Hash, error) {
	if h, ok := m.Revisions[string(rev)]; ok {
		return &h, nil
	}
	if m.ResolveErr != nil {
		return nil, m.ResolveErr
	}
	return nil, plumbing.ErrReferenceNotFound
}

// CommitObject looks up the hash in CommitObjects, falling back to CommitObjectErr.
func (m *MockGitRepository) CommitObject(h plumbing.Hash) (*object.Commit, error) {
	if m.CommitObjects != nil {
		if c, ok := m.CommitObjects[h]; ok {
			return c, nil
		}
	}
	if m.CommitObjectErr != nil {
		return nil, m.CommitObjectErr
	}
	return nil, plumbing.ErrObjectNotFound
}

// Root returns RootDir and RootErr.
func (m *MockGitRepository) Root() (string, error) {
	return m.RootDir, m.RootErr
}

// Compile-time interface checks.
var _ GitOpener = (*MockGitOpener)(nil)
var _ GitRepository = (*MockGitRepository)(nil)
