package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Client implements GitHubClient using the real GitHub API
type Client struct {
	client *github.Client
	token  string
}

// NewClient creates a new GitHub API client
func NewClient(token string) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client: github.NewClient(tc),
		token:  token,
	}
}

var (
	ErrGitHubTokenNotFound = fmt.Errorf("GITHUB_TOKEN or GH_TOKEN environment variable not found")
	ErrRepositoryExists    = errors.New("repository already exists")
)

// TokenFromEnv returns the token from GH_TOKEN or GITHUB_TOKEN
func TokenFromEnv() (string, error) {
	token := os.Getenv("GH_TOKEN")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return "", ErrGitHubTokenNotFound
	}
	return token, nil
}

// NewClientFromEnv creates a GitHub client using the token from environment variables
func NewClientFromEnv() (*Client, error) {
	token, err := TokenFromEnv()
	if err != nil {
		return nil, err
	}
	return NewClient(token), nil
}

// Token returns the token the client authenticates with
func (c *Client) Token() string {
	return c.token
}

func (c *Client) GetAuthenticatedUser(ctx context.Context) (*User, error) {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated user: %w", err)
	}
	return &User{Login: user.GetLogin(), Name: user.GetName()}, nil
}

func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	repository, _, err := c.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	return convertRepository(repository), nil
}

func (c *Client) CreateRepository(ctx context.Context, req *CreateRepositoryRequest) (*Repository, error) {
	repository, _, err := c.client.Repositories.Create(ctx, "", &github.Repository{
		Name:        github.String(req.Name),
		Description: github.String(req.Description),
		Private:     github.Bool(req.Private),
	})
	if err != nil {
		if isAlreadyExists(err) {
			return nil, fmt.Errorf("failed to create repository %s: %w", req.Name, ErrRepositoryExists)
		}
		return nil, fmt.Errorf("failed to create repository %s: %w", req.Name, err)
	}
	return convertRepository(repository), nil
}

// isAlreadyExists reports whether err is GitHub refusing a repository name
// that is taken, which it answers with 422 and sometimes 409.
func isAlreadyExists(err error) bool {
	var errResp *github.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Response == nil {
		return false
	}
	switch errResp.Response.StatusCode {
	case http.StatusConflict:
		return true
	case http.StatusUnprocessableEntity:
		for _, e := range errResp.Errors {
			if strings.Contains(e.Message, "already exists") {
				return true
			}
		}
		return strings.Contains(errResp.Message, "already exists")
	}
	return false
}

func convertRepository(r *github.Repository) *Repository {
	return &Repository{
		Owner:         r.GetOwner().GetLogin(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		Description:   r.GetDescription(),
		URL:           r.GetHTMLURL(),
		CloneURL:      r.GetCloneURL(),
		DefaultBranch: r.GetDefaultBranch(),
		Private:       r.GetPrivate(),
	}
}
