package git

import (
	"testing"

	"github.com/jsnml/gogit/env"
	"github.com/jsnml/gogit/ginternals/config"
	"github.com/jsnml/gogit/ginternals/object"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// newTestRepo creates a repository backed by an in-memory filesystem,
// rooted at /repo, with an initial branch named "master"
func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	fs := afero.NewMemMapFs()
	cfg, err := config.LoadConfig(env.NewFromKVList(nil), config.LoadConfigOptions{
		FS:               fs,
		WorkingDirectory: "/repo",
		GitDirPath:       "/repo/.git",
		WorkTreePath:     "/repo",
		SkipGitDirLookUp: true,
	})
	require.NoError(t, err)

	r, err := InitRepositoryWithParams(cfg, InitOptions{})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, r.Close())
	})
	return r
}

// blobObject builds (but doesn't persist) a blob object from content
func blobObject(t *testing.T, r *Repository, content string) *object.Object {
	t.Helper()
	return object.New(r.Hash(), object.TypeBlob, []byte(content))
}

