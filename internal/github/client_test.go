package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gh := github.NewClient(srv.Client())
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	gh.BaseURL = base

	return &Client{client: gh, token: "test-token"}
}

func TestClient_CreateRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "demo", body["name"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"name":"demo","full_name":"jane/demo","owner":{"login":"jane"},
			"html_url":"https://github.com/jane/demo","clone_url":"https://github.com/jane/demo.git","default_branch":"main"}`))
	})
	c := newTestClient(t, mux)

	repo, err := c.CreateRepository(context.Background(), &CreateRepositoryRequest{Name: "demo"})
	require.NoError(t, err)
	require.Equal(t, "jane", repo.Owner)
	require.Equal(t, "https://github.com/jane/demo.git", repo.CloneURL)
	require.Equal(t, "main", repo.DefaultBranch)
}

func TestClient_CreateRepositoryExists(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{
			name:   "unprocessable with name error",
			status: http.StatusUnprocessableEntity,
			body: `{"message":"Repository creation failed.","errors":[{"resource":"Repository",
				"code":"custom","field":"name","message":"name already exists on this account"}]}`,
		},
		{
			name:   "conflict",
			status: http.StatusConflict,
			body:   `{"message":"Conflict"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			c := newTestClient(t, mux)

			_, err := c.CreateRepository(context.Background(), &CreateRepositoryRequest{Name: "demo"})
			require.ErrorIs(t, err, ErrRepositoryExists)
		})
	}
}

func TestClient_CreateRepositoryOtherError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Validation Failed","errors":[{"message":"name is too long"}]}`))
	})
	c := newTestClient(t, mux)

	_, err := c.CreateRepository(context.Background(), &CreateRepositoryRequest{Name: "demo"})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrRepositoryExists)
}

func TestClient_GetAuthenticatedUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"login":"jane","name":"Jane"}`))
	})
	c := newTestClient(t, mux)

	user, err := c.GetAuthenticatedUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, &User{Login: "jane", Name: "Jane"}, user)
	require.Equal(t, "test-token", c.Token())
}

func TestTokenFromEnv(t *testing.T) {
	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	_, err := TokenFromEnv()
	require.ErrorIs(t, err, ErrGitHubTokenNotFound)

	t.Setenv("GITHUB_TOKEN", "b")
	token, err := TokenFromEnv()
	require.NoError(t, err)
	require.Equal(t, "b", token)

	t.Setenv("GH_TOKEN", "a")
	token, err = TokenFromEnv()
	require.NoError(t, err)
	require.Equal(t, "a", token)
}

func TestOAuthExchanger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "the-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"gho_abc","token_type":"bearer"}`))
	}))
	defer srv.Close()

	ex := NewOAuthExchanger("client", "secret", "http://localhost/callback").
		WithEndpoint(oauth2.Endpoint{AuthURL: srv.URL + "/authorize", TokenURL: srv.URL + "/token"})

	authURL := ex.AuthorizeURL("s1")
	require.Contains(t, authURL, "state=s1")
	require.Contains(t, authURL, "client_id=client")

	token, err := ex.Exchange(context.Background(), "the-code", "s1")
	require.NoError(t, err)
	require.Equal(t, "gho_abc", token)

	ex.ExpectedState = "s1"
	_, err = ex.Exchange(context.Background(), "the-code", "other")
	require.ErrorIs(t, err, ErrStateMismatch)
}
