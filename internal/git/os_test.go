package git_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/jakoblorz/go-codestart/internal/git"
	"github.com/stretchr/testify/require"
)

// runGitCmd runs a git command in the specified directory
func runGitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "git %v failed\nOutput: %s", args, output)
	return string(output)
}

func TestOSGitClient_InitCommitPush(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available in PATH")
	}

	remote := t.TempDir()
	runGitCmd(t, remote, "init", "--bare", "-b", "main")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# demo\n"), 0644))

	client := git.NewOSGitClient()

	ok, err := client.IsGitRepo(dir)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, client.Init(dir, "main"))
	ok, err = client.IsGitRepo(dir)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, client.AddAll(dir))
	sha, err := client.Commit(dir, "Initial commit", git.Author{Name: "Test User", Email: "test@example.com"})
	require.NoError(t, err)
	require.Len(t, sha, 40)

	require.NoError(t, client.AddRemote(dir, "origin", remote))
	require.NoError(t, client.Push(dir, "origin", "main", git.PushAuth{}))

	require.Contains(t, runGitCmd(t, remote, "log", "--format=%s", "main"), "Initial commit")
}

func TestOSGitClient_CommitOutsideRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available in PATH")
	}

	client := git.NewOSGitClient()
	_, err := client.Commit(t.TempDir(), "nope", git.Author{Name: "a", Email: "a@b"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to commit")
}
