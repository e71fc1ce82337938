// Package git implements a minimal, content-addressed version-control
// store: an object database, a tree/commit object model, a worktree
// bridge, a ref store with HEAD, a linear commit engine, log
// traversal, and ref visualization.
package git

import (
	"errors"
	"fmt"
	"os"

	"github.com/jsnml/gogit/backend"
	"github.com/jsnml/gogit/env"
	"github.com/jsnml/gogit/ginternals"
	"github.com/jsnml/gogit/ginternals/config"
	"github.com/jsnml/gogit/ginternals/githash"
	"github.com/jsnml/gogit/ginternals/object"
	"github.com/jsnml/gogit/internal/pathutil"
	"github.com/spf13/afero"
)

var (
	// ErrRepositoryNotExist is returned when no gitdir could be found
	// while walking up from the starting directory
	ErrRepositoryNotExist = errors.New("repository does not exist")
	// ErrRepositoryExists reports a target that already contains a
	// populated gitdir. InitRepository and InitRepositoryWithParams do
	// not return it: initializing an existing repository succeeds and
	// only adds what is missing.
	ErrRepositoryExists = errors.New("repository already exists")
	// ErrUnsupportedFormat is returned when core.repositoryformatversion
	// isn't the one this implementation understands
	ErrUnsupportedFormat = errors.New("unsupported repository format version")
)

// supportedRepoFormatVersion is the only core.repositoryformatversion
// this implementation knows how to read
const supportedRepoFormatVersion = 0

// Repository represents a handle on a single repository: its
// worktree, its gitdir, and the backend used to store its objects and
// refs. There is no implicit "current repository" anywhere in this
// package; every operation is a method on an explicit handle obtained
// once at the call site.
type Repository struct {
	// Config holds the resolved paths (gitdir, worktree, objects dir)
	// and the aggregated .git/config values
	Config *config.Config

	fs   afero.Fs
	hash githash.Hash
	b    backend.Backend
}

// InitOptions holds the options accepted by InitRepository
type InitOptions struct {
	// IsBare creates a repository without a worktree
	IsBare bool
	// InitialBranchName is the branch HEAD will point to. Defaults to
	// ginternals.Master
	InitialBranchName string
	// Symlink creates a .git FILE pointing at the gitdir instead of
	// using the gitdir directly
	Symlink bool
}

// OpenOptions holds the options accepted by OpenRepository
type OpenOptions struct {
	// IsBare opens a repository without expecting a worktree
	IsBare bool
}

// InitRepository creates a new repository rooted at directory, using
// the default options and the process environment
func InitRepository(directory string) (*Repository, error) {
	cfg, err := config.LoadConfig(env.NewFromOs(), config.LoadConfigOptions{
		WorkingDirectory: directory,
		SkipGitDirLookUp: true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not resolve config: %w", err)
	}
	return InitRepositoryWithParams(cfg, InitOptions{})
}

// InitRepositoryWithParams creates a new repository using a
// pre-resolved Config. It is safe to call on a repository that was
// already initialized: nothing that already exists is overwritten.
func InitRepositoryWithParams(cfg *config.Config, opts InitOptions) (*Repository, error) {
	b, err := backend.NewFSBackend(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create backend: %w", err)
	}

	branchName := opts.InitialBranchName
	if branchName == "" {
		branchName = ginternals.Master
	}

	if err := b.InitWithOptions(branchName, backend.InitOptions{
		CreateSymlink: opts.Symlink,
	}); err != nil {
		return nil, fmt.Errorf("could not initialize repository: %w", err)
	}

	fs := cfg.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Repository{
		Config: cfg,
		fs:     fs,
		hash:   githash.NewSHA1(),
		b:      b,
	}, nil
}

// OpenRepository discovers and opens the repository enclosing the
// given directory, using the default options and the process
// environment. ErrRepositoryNotExist is returned if no gitdir is
// found while walking up to the filesystem root.
func OpenRepository(directory string) (*Repository, error) {
	cfg, err := config.LoadConfig(env.NewFromOs(), config.LoadConfigOptions{
		WorkingDirectory: directory,
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, pathutil.ErrNoRepo) {
			return nil, fmt.Errorf("%s: %w", directory, ErrRepositoryNotExist)
		}
		return nil, fmt.Errorf("could not resolve config: %w", err)
	}
	return OpenRepositoryWithParams(cfg, OpenOptions{})
}

// OpenRepositoryWithParams opens a repository using a pre-resolved
// Config, validating that its on-disk format is one this
// implementation understands
func OpenRepositoryWithParams(cfg *config.Config, opts OpenOptions) (*Repository, error) {
	b, err := backend.NewFSBackend(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create backend: %w", err)
	}

	if version, ok := cfg.FromFile().RepoFormatVersion(); ok && version != supportedRepoFormatVersion {
		return nil, fmt.Errorf("version %d: %w", version, ErrUnsupportedFormat)
	}

	fs := cfg.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Repository{
		Config: cfg,
		fs:     fs,
		hash:   githash.NewSHA1(),
		b:      b,
	}, nil
}

// Close releases the resources held by the repository
func (r *Repository) Close() error {
	return r.b.Close()
}

// Hash returns the hash implementation used by the repository
func (r *Repository) Hash() githash.Hash {
	return r.hash
}

// Reference returns the reference with the given name.
// ginternals.ErrRefNotFound is returned if it doesn't exist.
func (r *Repository) Reference(name string) (*ginternals.Reference, error) {
	ref, err := r.b.Reference(name)
	if err != nil {
		return nil, fmt.Errorf("could not get reference %s: %w", name, err)
	}
	return ref, nil
}

// NewReference creates (or overwrites) a reference pointing directly
// at an object
func (r *Repository) NewReference(name string, target githash.Oid) (*ginternals.Reference, error) {
	ref := ginternals.NewReference(name, target)
	if err := r.b.WriteReference(ref); err != nil {
		return nil, fmt.Errorf("could not write reference %s: %w", name, err)
	}
	return ref, nil
}

// NewSymbolicReference creates (or overwrites) a reference pointing at
// another reference
func (r *Repository) NewSymbolicReference(name, target string) (*ginternals.Reference, error) {
	ref := ginternals.NewSymbolicReference(name, target)
	if err := r.b.WriteReference(ref); err != nil {
		return nil, fmt.Errorf("could not write symbolic reference %s: %w", name, err)
	}
	return ref, nil
}

// WalkReferences runs f on every known reference, including HEAD
func (r *Repository) WalkReferences(f backend.RefWalkFunc) error {
	return r.b.WalkReferences(f)
}

// GetObject returns the object stored under oid.
// ginternals.ErrObjectNotFound is returned if it doesn't exist.
func (r *Repository) GetObject(oid githash.Oid) (*object.Object, error) {
	o, err := r.b.Object(oid)
	if err != nil {
		return nil, fmt.Errorf("could not get object %s: %w", oid.String(), err)
	}
	return o, nil
}

// HasObject returns whether an object exists in the odb
func (r *Repository) HasObject(oid githash.Oid) (bool, error) {
	return r.b.HasObject(oid)
}

// WriteObject persists an object, returning its OID. Writing an
// object that already exists is a no-op.
func (r *Repository) WriteObject(o *object.Object) (githash.Oid, error) {
	return r.b.WriteObject(o)
}

// GetCommit returns the commit object pointed to by oid
func (r *Repository) GetCommit(oid githash.Oid) (*object.Commit, error) {
	o, err := r.GetObject(oid)
	if err != nil {
		return nil, err
	}
	c, err := o.AsCommit()
	if err != nil {
		return nil, fmt.Errorf("%s is not a commit: %w", oid.String(), err)
	}
	return c, nil
}

// ResolveOID resolves name to an OID. Per the MVP name-resolution
// policy, only a literal OID and the "@" alias for HEAD are
// supported: short prefixes and ref names are not resolved here.
func (r *Repository) ResolveOID(name string) (githash.Oid, error) {
	if name == "@" {
		head, err := r.Reference(ginternals.Head)
		if err != nil {
			return r.hash.NullOid(), fmt.Errorf("could not resolve HEAD: %w", err)
		}
		return head.Target(), nil
	}

	oid, err := r.hash.ConvertFromString(name)
	if err != nil {
		return r.hash.NullOid(), fmt.Errorf("not a valid object name %s: %w", name, err)
	}
	return oid, nil
}
