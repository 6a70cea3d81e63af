package github

import (
	"context"
)

// GitHubClient provides an abstraction over the GitHub API operations
// needed to publish a generated project
type GitHubClient interface {
	// GetAuthenticatedUser returns the login the token belongs to
	GetAuthenticatedUser(ctx context.Context) (*User, error)

	// Repository operations
	GetRepository(ctx context.Context, owner, repo string) (*Repository, error)
	CreateRepository(ctx context.Context, req *CreateRepositoryRequest) (*Repository, error)
}

// User represents a GitHub account
type User struct {
	Login string
	Name  string
}

// Repository represents a GitHub repository
type Repository struct {
	Owner         string
	Name          string
	FullName      string
	Description   string
	URL           string
	CloneURL      string
	DefaultBranch string
	Private       bool
}

// CreateRepositoryRequest represents a request to create a repository
// owned by the authenticated user
type CreateRepositoryRequest struct {
	Name        string
	Description string
	Private     bool
}
