package git

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os/exec"
	"strings"
)

// OSGitClient implements GitClient using real git commands
type OSGitClient struct {
	ctx context.Context
}

// NewOSGitClient creates a new OSGitClient
func NewOSGitClient() *OSGitClient {
	return &OSGitClient{
		ctx: context.Background(),
	}
}

// WithContext returns a new client with the given context
func (g *OSGitClient) WithContext(ctx context.Context) GitClient {
	return &OSGitClient{
		ctx: ctx,
	}
}

func (g *OSGitClient) run(dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(g.ctx, "git", args...)
	cmd.Dir = dir

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(out.String()), nil
}

// Init creates a repository in dir with branch as the initial branch
func (g *OSGitClient) Init(dir, branch string) error {
	if branch == "" {
		branch = "main"
	}
	if _, err := g.run(dir, "init", "-b", branch); err != nil {
		return fmt.Errorf("failed to init repository in %s: %w", dir, err)
	}
	return nil
}

// IsGitRepo checks if dir is inside a git repository
func (g *OSGitClient) IsGitRepo(dir string) (bool, error) {
	if _, err := g.run(dir, "rev-parse", "--git-dir"); err != nil {
		// Not a git repo
		return false, nil
	}
	return true, nil
}

// AddAll stages every file in dir
func (g *OSGitClient) AddAll(dir string) error {
	if _, err := g.run(dir, "add", "--all"); err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}
	return nil
}

// Commit records the staged files and returns the new commit SHA
func (g *OSGitClient) Commit(dir, message string, author Author) (string, error) {
	var args []string
	if author.Name != "" {
		args = append(args, "-c", "user.name="+author.Name)
	}
	if author.Email != "" {
		args = append(args, "-c", "user.email="+author.Email)
	}
	args = append(args, "commit", "--no-gpg-sign", "-m", message)

	if _, err := g.run(dir, args...); err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}

	sha, err := g.run(dir, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return sha, nil
}

// AddRemote registers a remote
func (g *OSGitClient) AddRemote(dir, name, url string) error {
	if _, err := g.run(dir, "remote", "add", name, url); err != nil {
		return fmt.Errorf("failed to add remote %s: %w", name, err)
	}
	return nil
}

// Push pushes branch to remote and sets it as upstream. Credentials are
// passed as a one-off http header and never written to the repository
// config.
func (g *OSGitClient) Push(dir, remote, branch string, auth PushAuth) error {
	var args []string
	if !auth.isZero() {
		user := auth.Username
		if user == "" {
			user = "x-access-token"
		}
		basic := base64.StdEncoding.EncodeToString([]byte(user + ":" + auth.Token))
		args = append(args, "-c", "http.extraHeader=Authorization: Basic "+basic)
	}
	args = append(args, "push", "--set-upstream", remote, branch)

	if _, err := g.run(dir, args...); err != nil {
		return fmt.Errorf("failed to push %s to %s: %w", branch, remote, err)
	}
	return nil
}
