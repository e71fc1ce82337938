package git

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogWalksFirstParentOldestLast(t *testing.T) {
	r := newTestRepo(t)

	require.NoError(t, afero.WriteFile(r.fs, "/repo/a.txt", []byte("a"), 0o644))
	firstOID, err := r.Commit("first")
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(r.fs, "/repo/b.txt", []byte("b"), 0o644))
	secondOID, err := r.Commit("second")
	require.NoError(t, err)

	entries, err := r.Log(secondOID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, secondOID.String(), entries[0].OID.String())
	assert.True(t, entries[0].IsHead)
	assert.Equal(t, firstOID.String(), entries[1].OID.String())
	assert.False(t, entries[1].IsHead)
}
