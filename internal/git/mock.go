package git

import (
	"context"
	"fmt"
	"sync"
)

// MockGitClient implements GitClient for testing. It keeps one simulated
// repository per directory.
type MockGitClient struct {
	mu    sync.RWMutex
	repos map[string]*MockRepo // key: directory
	ctx   context.Context

	// Hooks for testing error scenarios
	InitError      error
	AddAllError    error
	CommitError    error
	AddRemoteError error
	PushError      error
}

// MockRepo is the simulated state of one repository
type MockRepo struct {
	Branch  string
	Staged  bool
	Commits []MockCommit
	Remotes map[string]string
	Pushed  map[string]string // remote/branch -> commit hash
	Auth    []PushAuth
}

// MockCommit represents a git commit
type MockCommit struct {
	Hash    string
	Message string
	Author  Author
}

// NewMockGitClient creates a new MockGitClient
func NewMockGitClient() *MockGitClient {
	return &MockGitClient{
		repos: make(map[string]*MockRepo),
		ctx:   context.Background(),
	}
}

// WithContext returns the same mock; it has no network to cancel
func (m *MockGitClient) WithContext(ctx context.Context) GitClient {
	return m
}

// Repo returns the simulated repository at dir (helper for testing)
func (m *MockGitClient) Repo(dir string) (*MockRepo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.repos[dir]
	return r, ok
}

func (m *MockGitClient) repo(dir string) (*MockRepo, error) {
	r, ok := m.repos[dir]
	if !ok {
		return nil, fmt.Errorf("not a git repository: %s", dir)
	}
	return r, nil
}

func (m *MockGitClient) Init(dir, branch string) error {
	if m.InitError != nil {
		return m.InitError
	}
	if branch == "" {
		branch = "main"
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.repos[dir] = &MockRepo{
		Branch:  branch,
		Remotes: make(map[string]string),
		Pushed:  make(map[string]string),
	}
	return nil
}

func (m *MockGitClient) IsGitRepo(dir string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.repos[dir]
	return ok, nil
}

func (m *MockGitClient) AddAll(dir string) error {
	if m.AddAllError != nil {
		return m.AddAllError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.repo(dir)
	if err != nil {
		return err
	}
	r.Staged = true
	return nil
}

func (m *MockGitClient) Commit(dir, message string, author Author) (string, error) {
	if m.CommitError != nil {
		return "", m.CommitError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.repo(dir)
	if err != nil {
		return "", err
	}
	if !r.Staged {
		return "", fmt.Errorf("nothing to commit")
	}

	hash := fmt.Sprintf("commit%03d", len(r.Commits)+1)
	r.Commits = append(r.Commits, MockCommit{Hash: hash, Message: message, Author: author})
	r.Staged = false
	return hash, nil
}

func (m *MockGitClient) AddRemote(dir, name, url string) error {
	if m.AddRemoteError != nil {
		return m.AddRemoteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.repo(dir)
	if err != nil {
		return err
	}
	if _, exists := r.Remotes[name]; exists {
		return fmt.Errorf("remote %s already exists", name)
	}
	r.Remotes[name] = url
	return nil
}

func (m *MockGitClient) Push(dir, remote, branch string, auth PushAuth) error {
	if m.PushError != nil {
		return m.PushError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.repo(dir)
	if err != nil {
		return err
	}
	if _, ok := r.Remotes[remote]; !ok {
		return fmt.Errorf("no such remote: %s", remote)
	}
	if len(r.Commits) == 0 {
		return fmt.Errorf("src refspec %s does not match any", branch)
	}

	r.Pushed[remote+"/"+branch] = r.Commits[len(r.Commits)-1].Hash
	r.Auth = append(r.Auth, auth)
	return nil
}
