package git

import (
	"testing"

	"github.com/jsnml/gogit/ginternals"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutDetachesHeadAndRestoresWorktree(t *testing.T) {
	r := newTestRepo(t)

	require.NoError(t, afero.WriteFile(r.fs, "/repo/a.txt", []byte("v1"), 0o644))
	firstOID, err := r.Commit("first")
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(r.fs, "/repo/a.txt", []byte("v2"), 0o644))
	_, err = r.Commit("second")
	require.NoError(t, err)

	require.NoError(t, r.Checkout(firstOID))

	content, err := afero.ReadFile(r.fs, "/repo/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(content))

	head, err := r.b.Reference(ginternals.Head)
	require.NoError(t, err)
	assert.Equal(t, ginternals.OidReference, head.Type(), "checkout must detach HEAD, not leave it symbolic")
	assert.Equal(t, firstOID.String(), head.Target().String())
}
