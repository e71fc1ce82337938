package backend

import (
	"testing"

	"github.com/jsnml/gogit/env"
	"github.com/jsnml/gogit/ginternals"
	"github.com/jsnml/gogit/ginternals/config"
	"github.com/jsnml/gogit/ginternals/object"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) *FSBackend {
	t.Helper()

	cfg, err := config.LoadConfig(env.NewFromKVList(nil), config.LoadConfigOptions{
		FS:               afero.NewMemMapFs(),
		WorkingDirectory: "/repo",
		GitDirPath:       "/repo/.git",
		WorkTreePath:     "/repo",
		SkipGitDirLookUp: true,
	})
	require.NoError(t, err)

	b, err := NewFSBackend(cfg)
	require.NoError(t, err)
	require.NoError(t, b.Init(ginternals.Master))
	t.Cleanup(func() {
		require.NoError(t, b.Close())
	})
	return b
}

func TestInitCreatesSymbolicHead(t *testing.T) {
	b := newTestBackend(t)

	head, err := b.Reference(ginternals.Head)
	assert.Nil(t, head)
	assert.ErrorIs(t, err, ginternals.ErrRefNotFound)

	raw, ok := b.refs.Load(ginternals.Head)
	require.True(t, ok)
	assert.Equal(t, "ref: refs/heads/master\n", string(raw.([]byte)))

	exists, err := afero.Exists(b.fs, b.Path())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInitIsSafeToRerun(t *testing.T) {
	b := newTestBackend(t)
	assert.NoError(t, b.Init(ginternals.Master))
}

func TestWriteObjectIsIdempotent(t *testing.T) {
	b := newTestBackend(t)

	o := object.New(b.hash, object.TypeBlob, []byte("hello\n"))
	oid1, err := b.WriteObject(o)
	require.NoError(t, err)

	oid2, err := b.WriteObject(o)
	require.NoError(t, err)
	assert.Equal(t, oid1.String(), oid2.String())

	got, err := b.Object(oid1)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello\n"), got.Bytes())

	has, err := b.HasObject(oid1)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestObjectNotFound(t *testing.T) {
	b := newTestBackend(t)

	oid, err := b.hash.ConvertFromString("0000000000000000000000000000000000000000")
	require.NoError(t, err)

	_, err = b.Object(oid)
	assert.ErrorIs(t, err, ginternals.ErrObjectNotFound)
}

func TestWriteReferenceAndWalkReferences(t *testing.T) {
	b := newTestBackend(t)

	o := object.New(b.hash, object.TypeBlob, []byte("hello\n"))
	oid, err := b.WriteObject(o)
	require.NoError(t, err)

	ref := ginternals.NewReference(ginternals.LocalBranchFullName("topic"), oid)
	require.NoError(t, b.WriteReference(ref))

	err = b.WriteReferenceSafe(ref)
	assert.ErrorIs(t, err, ginternals.ErrRefExists)

	var names []string
	require.NoError(t, b.WalkReferences(func(r *ginternals.Reference) error {
		names = append(names, r.Name())
		return nil
	}))
	assert.Contains(t, names, ginternals.LocalBranchFullName("topic"))
}
