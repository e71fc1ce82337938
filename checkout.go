package git

import (
	"fmt"

	"github.com/jsnml/gogit/ginternals"
	"github.com/jsnml/gogit/ginternals/githash"
)

// Checkout materializes the tree of the commit at oid onto the
// worktree and detaches HEAD to oid.
//
// Per the MVP name-resolution policy, ref-name resolution beyond the
// literal OID form isn't supported here; callers resolve "@" via
// ResolveOID before calling Checkout.
func (r *Repository) Checkout(oid githash.Oid) error {
	c, err := r.GetCommit(oid)
	if err != nil {
		return fmt.Errorf("could not load commit %s: %w", oid.String(), err)
	}

	if err := r.ReadTree(c.TreeID()); err != nil {
		return fmt.Errorf("could not restore worktree: %w", err)
	}

	if _, err := r.NewReference(ginternals.Head, oid); err != nil {
		return fmt.Errorf("could not detach HEAD: %w", err)
	}

	return nil
}
