package github

import (
	"context"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"
)

// Scopes requested when authorizing repository creation
var Scopes = []string{"public_repo", "workflow"}

var ErrStateMismatch = errors.New("oauth state does not match")

// Exchanger turns an authorization code into an access token
type Exchanger interface {
	AuthorizeURL(state string) string
	Exchange(ctx context.Context, code, state string) (string, error)
}

// OAuthExchanger implements Exchanger with the GitHub OAuth app flow
type OAuthExchanger struct {
	config *oauth2.Config

	// ExpectedState is compared against the state returned by GitHub,
	// when set
	ExpectedState string
}

// NewOAuthExchanger creates an exchanger for the given OAuth app
func NewOAuthExchanger(clientID, clientSecret, redirectURL string) *OAuthExchanger {
	return &OAuthExchanger{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       Scopes,
			Endpoint:     oauthgithub.Endpoint,
		},
	}
}

// WithEndpoint overrides the OAuth endpoint (for GitHub Enterprise or tests)
func (e *OAuthExchanger) WithEndpoint(endpoint oauth2.Endpoint) *OAuthExchanger {
	e.config.Endpoint = endpoint
	return e
}

// NewState returns a random OAuth state parameter
func NewState() (string, error) {
	state, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return state, nil
}

func (e *OAuthExchanger) AuthorizeURL(state string) string {
	return e.config.AuthCodeURL(state)
}

func (e *OAuthExchanger) Exchange(ctx context.Context, code, state string) (string, error) {
	if e.ExpectedState != "" && state != e.ExpectedState {
		return "", ErrStateMismatch
	}
	token, err := e.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange oauth code: %w", err)
	}
	return token.AccessToken, nil
}
