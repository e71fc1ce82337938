package git

import (
	"fmt"

	"github.com/jsnml/gogit/ginternals"
	"github.com/jsnml/gogit/ginternals/githash"
)

// GraphNode represents a commit reachable from some ref, annotated
// with the refs that point directly at it
type GraphNode struct {
	OID     githash.Oid
	Refs    []string
	Parents []githash.Oid
}

// Graph is a node-and-edge description of reachable history, suitable
// for external rendering
type Graph struct {
	Nodes []GraphNode
}

// K enumerates every ref (including HEAD), groups them by the commit
// they target, and walks each commit's ancestry, stopping the first
// time a commit is revisited so history shared by multiple refs is
// only emitted once.
func (r *Repository) K() (*Graph, error) {
	refsByTarget := map[string][]string{}

	err := r.b.WalkReferences(func(ref *ginternals.Reference) error {
		refsByTarget[ref.Target().String()] = append(refsByTarget[ref.Target().String()], ref.Name())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not walk references: %w", err)
	}

	g := &Graph{}
	visited := map[string]struct{}{}

	for target := range refsByTarget {
		oid, err := r.hash.ConvertFromString(target)
		if err != nil {
			return nil, fmt.Errorf("invalid ref target %s: %w", target, err)
		}

		for !oid.IsZero() {
			key := oid.String()
			if _, seen := visited[key]; seen {
				break
			}
			visited[key] = struct{}{}

			c, err := r.GetCommit(oid)
			if err != nil {
				return nil, fmt.Errorf("could not read commit %s: %w", key, err)
			}

			g.Nodes = append(g.Nodes, GraphNode{
				OID:     oid,
				Refs:    refsByTarget[key],
				Parents: c.ParentIDs(),
			})

			parents := c.ParentIDs()
			if len(parents) == 0 {
				break
			}
			oid = parents[0]
		}
	}

	return g, nil
}
