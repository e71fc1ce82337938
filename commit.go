package git

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jsnml/gogit/ginternals"
	"github.com/jsnml/gogit/ginternals/githash"
	"github.com/jsnml/gogit/ginternals/object"
	"github.com/spf13/afero"
)

// Commit snapshots the worktree into a tree object, links it to the
// current HEAD (if any), and advances HEAD to the new commit.
//
// There is no author/committer metadata recorded: a commit is reduced
// to the tree it captures, the commit(s) it descends from, and a
// message.
func (r *Repository) Commit(message string) (githash.Oid, error) {
	treeOID, err := r.WriteTree(r.Config.WorkTreePath)
	if err != nil {
		return r.hash.NullOid(), fmt.Errorf("could not snapshot worktree: %w", err)
	}

	opts := &object.CommitOptions{
		Message: message + "\n",
	}

	head, err := r.Reference(ginternals.Head)
	switch {
	case err == nil:
		opts.ParentsID = []githash.Oid{head.Target()}
	case errors.Is(err, ginternals.ErrRefNotFound):
		// unborn branch: first commit of the repo, no parent
	default:
		return r.hash.NullOid(), fmt.Errorf("could not resolve HEAD: %w", err)
	}

	c := object.NewCommit(r.hash, treeOID, opts)
	oid, err := r.WriteObject(c.ToObject())
	if err != nil {
		return r.hash.NullOid(), fmt.Errorf("could not write commit: %w", err)
	}

	if err := r.setHead(oid); err != nil {
		return r.hash.NullOid(), fmt.Errorf("could not advance HEAD: %w", err)
	}

	return oid, nil
}

// setHead advances HEAD to oid, following a symbolic HEAD to the
// branch it points to rather than detaching it. The raw HEAD content
// is read directly instead of going through the usual reference
// resolution: on an unborn branch the branch HEAD points to doesn't
// have a ref file yet, so resolving the chain would fail even though
// HEAD itself is perfectly valid.
func (r *Repository) setHead(oid githash.Oid) error {
	headPath := filepath.Join(ginternals.DotGitPath(r.Config), ginternals.Head)
	data, err := afero.ReadFile(r.fs, headPath)
	if err != nil {
		return fmt.Errorf("could not load HEAD: %w", err)
	}
	data = bytes.TrimSpace(data)

	target := ginternals.Head
	if bytes.HasPrefix(data, []byte("ref: ")) {
		target = strings.TrimSpace(string(data[len("ref: "):]))
	}

	_, err = r.NewReference(target, oid)
	return err
}
