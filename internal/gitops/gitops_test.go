package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *Repo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	r := Open(t.TempDir(), "Test Author", "test@example.com")
	require.NoError(t, r.Init(context.Background()))
	return r
}

func gitLog(t *testing.T, dir, format string) string {
	t.Helper()
	cmd := exec.Command("git", "log", "--format="+format, "-1")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func TestInit(t *testing.T) {
	r := newRepo(t)

	_, err := os.Stat(filepath.Join(r.Dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
	assert.NoError(t, r.Init(context.Background()), "init is idempotent")
}

func TestIsRepo(t *testing.T) {
	assert.False(t, Open(t.TempDir(), "", "").IsRepo(), "empty dir should not be a repo")
	assert.True(t, newRepo(t).IsRepo(), "initialized dir should be a repo")
}

func TestCommit(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	require.NoError(t, os.WriteFile(filepath.Join(r.Dir, "ledger.json"), []byte("{}"), 0o644))

	hash, err := r.Commit(ctx, "init: empty ledger")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.Contains(t, gitLog(t, r.Dir, "%s"), "init: empty ledger")
	assert.Contains(t, gitLog(t, r.Dir, "%an <%ae>"), "Test Author <test@example.com>")
}

func TestCommit_NothingToCommit(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	require.NoError(t, os.WriteFile(filepath.Join(r.Dir, "ledger.json"), []byte("{}"), 0o644))
	_, err := r.Commit(ctx, "first")
	require.NoError(t, err)

	hash, err := r.Commit(ctx, "second")
	require.NoError(t, err)
	assert.Empty(t, hash)
	assert.Contains(t, gitLog(t, r.Dir, "%s"), "first")
}

func TestCommit_OnlyNamedPaths(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	require.NoError(t, os.WriteFile(filepath.Join(r.Dir, "ledger.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(r.Dir, "scratch.txt"), []byte("x"), 0o644))

	_, err := r.Commit(ctx, "tx: add", "ledger.json")
	require.NoError(t, err)

	cmd := exec.Command("git", "status", "--porcelain")
	cmd.Dir = r.Dir
	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "?? scratch.txt")
	assert.NotContains(t, string(out), "ledger.json")
}
