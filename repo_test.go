package git

import (
	"testing"

	"github.com/jsnml/gogit/env"
	"github.com/jsnml/gogit/ginternals"
	"github.com/jsnml/gogit/ginternals/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRepositoryWithParamsCreatesUnbornHead(t *testing.T) {
	r := newTestRepo(t)

	head, err := r.Reference(ginternals.Head)
	assert.Nil(t, head)
	assert.ErrorIs(t, err, ginternals.ErrRefNotFound, "HEAD should follow to a branch that doesn't have any commit yet")
}

func TestInitRepositoryWithParamsIsIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg, err := config.LoadConfig(env.NewFromKVList(nil), config.LoadConfigOptions{
		FS:               fs,
		WorkingDirectory: "/repo",
		GitDirPath:       "/repo/.git",
		WorkTreePath:     "/repo",
		SkipGitDirLookUp: true,
	})
	require.NoError(t, err)

	r1, err := InitRepositoryWithParams(cfg, InitOptions{})
	require.NoError(t, err)
	require.NoError(t, r1.Close())

	r2, err := InitRepositoryWithParams(cfg, InitOptions{})
	require.NoError(t, err, "re-running init on an existing repo should be safe")
	require.NoError(t, r2.Close())
}

func TestOpenRepositoryWithParamsRejectsUnsupportedFormat(t *testing.T) {
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
	require.NoError(t, r.Close())

	cfg.FromFile().UpdateRepoFormatVersion("1")
	require.NoError(t, cfg.FromFile().Save())

	_, err = OpenRepositoryWithParams(cfg, OpenOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestResolveOIDLiteralAndHeadAlias(t *testing.T) {
	r := newTestRepo(t)

	oid, err := r.WriteObject(blobObject(t, r, "hello\n"))
	require.NoError(t, err)

	resolved, err := r.ResolveOID(oid.String())
	require.NoError(t, err)
	assert.Equal(t, oid.String(), resolved.String())

	_, err = r.ResolveOID("@")
	assert.ErrorIs(t, err, ginternals.ErrRefNotFound, "@ on an unborn HEAD has nothing to resolve to")

	_, err = r.ResolveOID("not-an-oid")
	assert.Error(t, err)
}
