package git

import (
	"testing"

	"github.com/jsnml/gogit/ginternals"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTagIsLightweight(t *testing.T) {
	r := newTestRepo(t)

	require.NoError(t, afero.WriteFile(r.fs, "/repo/a.txt", []byte("a"), 0o644))
	oid, err := r.Commit("first")
	require.NoError(t, err)

	require.NoError(t, r.CreateTag("v1", oid))

	ref, err := r.Reference(ginternals.LocalTagFullName("v1"))
	require.NoError(t, err)
	assert.Equal(t, oid.String(), ref.Target().String())

	// the tag points directly at the commit, there is no annotated tag object
	o, err := r.GetObject(oid)
	require.NoError(t, err)
	assert.Equal(t, "commit", o.Type().String())
}
