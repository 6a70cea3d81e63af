package git

import (
	"context"
)

// GitClient provides an abstraction over the git operations used to turn
// a generated project directory into a repository and publish it.
//
// Every operation takes the working directory explicitly; the client holds
// no notion of a current repository.
type GitClient interface {
	// Repository operations
	Init(dir, branch string) error
	IsGitRepo(dir string) (bool, error)

	// Commit operations
	AddAll(dir string) error
	Commit(dir, message string, author Author) (string, error)

	// Remote operations
	AddRemote(dir, name, url string) error
	Push(dir, remote, branch string, auth PushAuth) error

	// Context support for network operations
	WithContext(ctx context.Context) GitClient
}

// Author identifies the committer. Empty fields fall back to the user's
// git configuration.
type Author struct {
	Name  string
	Email string
}

// PushAuth carries credentials for an HTTPS push. A zero value pushes
// with whatever credential helper git has configured.
type PushAuth struct {
	Username string
	Token    string
}

func (a PushAuth) isZero() bool {
	return a.Token == ""
}
