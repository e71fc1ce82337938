package git

import (
	"testing"

	"github.com/jsnml/gogit/ginternals"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKGroupsRefsByCommitAndStopsOnSharedHistory(t *testing.T) {
	r := newTestRepo(t)

	require.NoError(t, afero.WriteFile(r.fs, "/repo/a.txt", []byte("a"), 0o644))
	firstOID, err := r.Commit("first")
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(r.fs, "/repo/b.txt", []byte("b"), 0o644))
	secondOID, err := r.Commit("second")
	require.NoError(t, err)

	require.NoError(t, r.CreateTag("v1", firstOID))

	g, err := r.K()
	require.NoError(t, err)

	byOID := map[string][]string{}
	for _, n := range g.Nodes {
		byOID[n.OID.String()] = n.Refs
	}

	// HEAD and master (the branch HEAD is a symbolic ref for) resolve to
	// the same commit, and the walk from v1 reaches history already
	// visited, so each commit must only appear once
	assert.Len(t, g.Nodes, 2)
	masterRefs := byOID[secondOID.String()]
	assert.Contains(t, masterRefs, ginternals.LocalBranchFullName(ginternals.Master))
	assert.Contains(t, masterRefs, ginternals.Head)

	firstRefs := byOID[firstOID.String()]
	assert.Contains(t, firstRefs, ginternals.LocalTagFullName("v1"))
}
