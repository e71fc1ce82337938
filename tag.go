package git

import (
	"fmt"

	"github.com/jsnml/gogit/ginternals"
	"github.com/jsnml/gogit/ginternals/githash"
)

// CreateTag writes refs/tags/<name> pointing at oid: a lightweight
// tag, not an annotated tag object. Any existing tag of the same name
// is overwritten.
func (r *Repository) CreateTag(name string, oid githash.Oid) error {
	ref := ginternals.NewReference(ginternals.LocalTagFullName(name), oid)
	if err := r.b.WriteReference(ref); err != nil {
		return fmt.Errorf("could not create tag %s: %w", name, err)
	}
	return nil
}
