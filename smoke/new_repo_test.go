package smoke_test

import (
	"os"
	"path/filepath"
	"testing"

	git "github.com/jsnml/gogit"
	"github.com/jsnml/gogit/internal/testhelper"
	"github.com/jsnml/gogit/internal/testhelper/confutil"
	"github.com/stretchr/testify/require"
)

// TestWorkingOnNewRepo exercises the full lifecycle of a repository on
// a real filesystem: init, two commits, a tag, walking the history
// back, checking out the first commit, then building the ref graph.
func TestWorkingOnNewRepo(t *testing.T) {
	d, cleanup := testhelper.TempDir(t)
	t.Cleanup(cleanup)

	cfg := confutil.NewCommonConfig(t, d)

	r, err := git.InitRepositoryWithParams(cfg, git.InitOptions{})
	require.NoError(t, err, "failed creating a repo")
	t.Cleanup(func() {
		require.NoError(t, r.Close(), "failed closing repo")
	})

	require.NoError(t, os.WriteFile(filepath.Join(d, "README.md"), []byte("Hello Wrld\n"), 0o644))

	firstCommit, err := r.Commit("Initial commit")
	require.NoError(t, err, "failed creating the initial commit")

	require.NoError(t, r.CreateTag("v1", firstCommit))

	require.NoError(t, os.WriteFile(filepath.Join(d, "README.md"), []byte("Hello World\n"), 0o644))
	secondCommit, err := r.Commit("docs(readme): Fix typo")
	require.NoError(t, err, "failed creating the fix commit")

	log, err := r.Log(secondCommit)
	require.NoError(t, err)
	require.Len(t, log, 2)
	require.Equal(t, secondCommit.String(), log[0].OID.String())
	require.Equal(t, firstCommit.String(), log[1].OID.String())

	require.NoError(t, r.Checkout(firstCommit))
	content, err := os.ReadFile(filepath.Join(d, "README.md"))
	require.NoError(t, err)
	require.Equal(t, "Hello Wrld\n", string(content))

	g, err := r.K()
	require.NoError(t, err)
	require.NotEmpty(t, g.Nodes)
}
