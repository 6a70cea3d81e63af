package github

import (
	"context"
	"fmt"
	"sync"
)

// MockClient implements GitHubClient for testing
type MockClient struct {
	mu           sync.RWMutex
	user         *User
	repositories map[string]*Repository // key: "owner/repo"

	// Hooks for testing error scenarios
	GetAuthenticatedUserError error
	GetRepositoryError        error
	CreateRepositoryError     error
}

// NewMockClient creates a new MockClient
func NewMockClient() *MockClient {
	return &MockClient{
		user:         &User{Login: "octocat"},
		repositories: make(map[string]*Repository),
	}
}

// SetUser sets the authenticated user
func (m *MockClient) SetUser(login string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = &User{Login: login}
}

// SetupRepository adds a repository to the mock
func (m *MockClient) SetupRepository(owner, repo string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("%s/%s", owner, repo)
	m.repositories[key] = newMockRepository(owner, repo)
}

func newMockRepository(owner, repo string) *Repository {
	return &Repository{
		Owner:         owner,
		Name:          repo,
		FullName:      fmt.Sprintf("%s/%s", owner, repo),
		URL:           fmt.Sprintf("https://github.com/%s/%s", owner, repo),
		CloneURL:      fmt.Sprintf("https://github.com/%s/%s.git", owner, repo),
		DefaultBranch: "main",
	}
}

func (m *MockClient) GetAuthenticatedUser(ctx context.Context) (*User, error) {
	if m.GetAuthenticatedUserError != nil {
		return nil, m.GetAuthenticatedUserError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user, nil
}

func (m *MockClient) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	if m.GetRepositoryError != nil {
		return nil, m.GetRepositoryError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	key := fmt.Sprintf("%s/%s", owner, repo)
	repository, exists := m.repositories[key]
	if !exists {
		return nil, fmt.Errorf("repository %s not found", key)
	}

	return repository, nil
}

func (m *MockClient) CreateRepository(ctx context.Context, req *CreateRepositoryRequest) (*Repository, error) {
	if m.CreateRepositoryError != nil {
		return nil, m.CreateRepositoryError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("%s/%s", m.user.Login, req.Name)
	if _, exists := m.repositories[key]; exists {
		return nil, fmt.Errorf("failed to create repository %s: %w", req.Name, ErrRepositoryExists)
	}

	repository := newMockRepository(m.user.Login, req.Name)
	repository.Description = req.Description
	repository.Private = req.Private
	m.repositories[key] = repository
	return repository, nil
}

// GetAllRepositories returns all repositories (helper for testing)
func (m *MockClient) GetAllRepositories() []*Repository {
	m.mu.RLock()
	defer m.mu.RUnlock()

	repos := make([]*Repository, 0, len(m.repositories))
	for _, r := range m.repositories {
		repos = append(repos, r)
	}
	return repos
}

// MockExchanger implements Exchanger for testing
type MockExchanger struct {
	Token         string
	ExchangeError error
	Codes         []string
}

func (m *MockExchanger) AuthorizeURL(state string) string {
	return "https://github.com/login/oauth/authorize?state=" + state
}

func (m *MockExchanger) Exchange(ctx context.Context, code, state string) (string, error) {
	m.Codes = append(m.Codes, code)
	if m.ExchangeError != nil {
		return "", m.ExchangeError
	}
	return m.Token, nil
}
