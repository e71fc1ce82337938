package git

import (
	"testing"

	"github.com/jsnml/gogit/ginternals/object"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTreeThenReadTreeRoundTrips(t *testing.T) {
	r := newTestRepo(t)

	require.NoError(t, afero.WriteFile(r.fs, "/repo/README.md", []byte("hello\n"), 0o644))
	require.NoError(t, r.fs.MkdirAll("/repo/src", 0o755))
	require.NoError(t, afero.WriteFile(r.fs, "/repo/src/main.go", []byte("package main\n"), 0o644))

	treeOID, err := r.WriteTree(r.Config.WorkTreePath)
	require.NoError(t, err)

	// writing the same content twice yields the same tree OID: the
	// store is purely a function of content
	treeOID2, err := r.WriteTree(r.Config.WorkTreePath)
	require.NoError(t, err)
	assert.Equal(t, treeOID.String(), treeOID2.String())

	// wipe the worktree, then rebuild it from the tree
	require.NoError(t, r.fs.Remove("/repo/README.md"))
	require.NoError(t, r.fs.RemoveAll("/repo/src"))

	require.NoError(t, r.ReadTree(treeOID))

	got, err := afero.ReadFile(r.fs, "/repo/README.md")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(got))

	got, err = afero.ReadFile(r.fs, "/repo/src/main.go")
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(got))
}

func TestReadTreeClearsUntrackedFilesButKeepsGitdir(t *testing.T) {
	r := newTestRepo(t)

	require.NoError(t, afero.WriteFile(r.fs, "/repo/a.txt", []byte("a"), 0o644))
	treeOID, err := r.WriteTree(r.Config.WorkTreePath)
	require.NoError(t, err)

	// an untracked file shows up after the snapshot was taken
	require.NoError(t, afero.WriteFile(r.fs, "/repo/untracked.txt", []byte("junk"), 0o644))

	require.NoError(t, r.ReadTree(treeOID))

	exists, err := afero.Exists(r.fs, "/repo/untracked.txt")
	require.NoError(t, err)
	assert.False(t, exists, "read-tree should discard files not present in the tree")

	exists, err = afero.DirExists(r.fs, r.Config.GitDirPath)
	require.NoError(t, err)
	assert.True(t, exists, "read-tree must never touch the gitdir")
}

func TestFlattenTreeRejectsUnsafeEntryNames(t *testing.T) {
	r := newTestRepo(t)

	blob := blobObject(t, r, "evil")
	blobOID, err := r.WriteObject(blob)
	require.NoError(t, err)

	tree := object.NewTree(r.Hash(), []object.TreeEntry{
		{Path: "../escape", Mode: object.ModeFile, ID: blobOID},
	})
	treeOID, err := r.WriteObject(tree.ToObject())
	require.NoError(t, err)

	_, err = r.flattenTree(r.Config.WorkTreePath, treeOID)
	assert.ErrorIs(t, err, ErrMalformedTree)
}
