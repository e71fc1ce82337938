package git

import (
	"fmt"

	"github.com/jsnml/gogit/ginternals"
	"github.com/jsnml/gogit/ginternals/githash"
)

// LogEntry represents a single commit visited by Log
type LogEntry struct {
	OID     githash.Oid
	IsHead  bool
	Message string
}

// Log walks the first-parent chain starting at start, emitting one
// entry per commit. start is an already resolved OID: callers turn "@"
// or a literal OID string into a githash.Oid with ResolveOID first.
// Multi-parent (merge) commits only follow their first recorded parent.
func (r *Repository) Log(start githash.Oid) ([]LogEntry, error) {
	head, err := r.Reference(ginternals.Head)
	var headOID githash.Oid
	if err == nil {
		headOID = head.Target()
	}

	var entries []LogEntry
	oid := start
	for !oid.IsZero() {
		c, err := r.GetCommit(oid)
		if err != nil {
			return nil, fmt.Errorf("could not read commit %s: %w", oid.String(), err)
		}

		entries = append(entries, LogEntry{
			OID:     oid,
			IsHead:  !headOID.IsZero() && oid.String() == headOID.String(),
			Message: c.Message(),
		})

		parents := c.ParentIDs()
		if len(parents) == 0 {
			break
		}
		oid = parents[0]
	}

	return entries, nil
}
