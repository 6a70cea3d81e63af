package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/jakoblorz/go-codestart/internal/git"
	"github.com/jakoblorz/go-codestart/internal/github"
	"github.com/jakoblorz/go-codestart/internal/models"
)

const defaultBranch = "main"

// resolveToken prefers the pending OAuth code of the project over the
// environment.
func (g *Generator) resolveToken(ctx context.Context, p *models.ProjectDefinition) (string, error) {
	if p.GitHub != nil && p.GitHub.Code != "" && g.deps.Exchanger != nil {
		token, err := g.deps.Exchanger.Exchange(ctx, p.GitHub.Code, p.GitHub.State)
		if err != nil {
			return "", err
		}
		return token, nil
	}
	return github.TokenFromEnv()
}

func repositoryExists(artifactID string) error {
	return fmt.Errorf("there is already a project named '%s' on your GitHub, please retry with a different name: %w",
		artifactID, github.ErrRepositoryExists)
}

func (g *Generator) pushToGitHub(ctx context.Context, p *models.ProjectDefinition, result *Result) (*Result, error) {
	token, err := g.resolveToken(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with GitHub: %w", err)
	}
	client := g.deps.GitHub(token)

	user, err := client.GetAuthenticatedUser(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := client.GetRepository(ctx, user.Login, p.ArtifactID); err == nil {
		return nil, repositoryExists(p.ArtifactID)
	}

	repo, err := client.CreateRepository(ctx, &github.CreateRepositoryRequest{
		Name:        p.ArtifactID,
		Description: "Generated with codestart",
	})
	if errors.Is(err, github.ErrRepositoryExists) {
		return nil, repositoryExists(p.ArtifactID)
	}
	if err != nil {
		return nil, err
	}
	g.deps.Log.Info("created repository", "repository", repo.FullName)

	data, err := g.fetchArchive(ctx, p)
	if err != nil {
		return nil, err
	}

	tmp, err := g.deps.FS.MkdirTemp("codestart-github-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = g.deps.FS.RemoveAll(tmp) }()

	path, files, err := g.unpack(data, tmp, p.ArtifactID)
	if err != nil {
		return nil, err
	}

	gc := g.deps.Git.WithContext(ctx)
	if err := gc.Init(path, defaultBranch); err != nil {
		return nil, err
	}
	if err := gc.AddAll(path); err != nil {
		return nil, err
	}
	author := git.Author{Name: user.Login, Email: user.Login + "@users.noreply.github.com"}
	if _, err := gc.Commit(path, "Initial commit", author); err != nil {
		return nil, err
	}
	if err := gc.AddRemote(path, "origin", repo.CloneURL); err != nil {
		return nil, err
	}
	if err := gc.Push(path, "origin", defaultBranch, git.PushAuth{Token: token}); err != nil {
		return nil, err
	}

	result.Repository = repo
	result.Files = files
	return result, nil
}
