package git

import (
	"testing"

	"github.com/jsnml/gogit/ginternals"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitAdvancesSymbolicHead(t *testing.T) {
	r := newTestRepo(t)

	require.NoError(t, afero.WriteFile(r.fs, "/repo/a.txt", []byte("a"), 0o644))
	firstOID, err := r.Commit("first commit")
	require.NoError(t, err)

	// HEAD should still be symbolic, now pointing through master at the commit
	headOID, err := r.ResolveOID("@")
	require.NoError(t, err)
	assert.Equal(t, firstOID.String(), headOID.String())

	branch, err := r.b.Reference(ginternals.LocalBranchFullName(ginternals.Master))
	require.NoError(t, err)
	assert.Equal(t, firstOID.String(), branch.Target().String())

	first, err := r.GetCommit(firstOID)
	require.NoError(t, err)
	assert.Empty(t, first.ParentIDs(), "the first commit of a repo has no parent")

	// a second commit should chain to the first
	require.NoError(t, afero.WriteFile(r.fs, "/repo/b.txt", []byte("b"), 0o644))
	secondOID, err := r.Commit("second commit")
	require.NoError(t, err)

	second, err := r.GetCommit(secondOID)
	require.NoError(t, err)
	require.Len(t, second.ParentIDs(), 1)
	assert.Equal(t, firstOID.String(), second.ParentIDs()[0].String())
}
