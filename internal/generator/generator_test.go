package generator

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/jakoblorz/go-codestart/internal/api"
	"github.com/jakoblorz/go-codestart/internal/catalog"
	"github.com/jakoblorz/go-codestart/internal/filesystem"
	"github.com/jakoblorz/go-codestart/internal/git"
	"github.com/jakoblorz/go-codestart/internal/github"
	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/stretchr/testify/require"
)

type archiveEntry struct {
	name    string
	content string
	exec    bool
}

func buildArchive(t *testing.T, entries ...archiveEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		h := &zip.FileHeader{Name: e.name, Method: zip.Deflate}
		switch {
		case e.exec:
			h.SetMode(0755)
		default:
			h.SetMode(0644)
		}
		w, err := zw.CreateHeader(h)
		require.NoError(t, err)
		if e.content != "" {
			_, err = w.Write([]byte(e.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func projectArchive(t *testing.T, root string) []byte {
	return buildArchive(t,
		archiveEntry{name: root + "/.gitignore", content: "target/\n*.log\n"},
		archiveEntry{name: root + "/mvnw", content: "#!/bin/sh\n", exec: true},
		archiveEntry{name: root + "/pom.xml", content: "<project/>"},
		archiveEntry{name: root + "/build.log", content: "noise"},
		archiveEntry{name: root + "/src/main/java/org/acme/GreetingResource.java", content: "class GreetingResource {}"},
		archiveEntry{name: root + "/target/classes/GreetingResource.class", content: "bytecode"},
	)
}

type fixture struct {
	fs        *filesystem.MockFileSystem
	api       *api.MockClient
	git       *git.MockGitClient
	gh        *github.MockClient
	exchanger *github.MockExchanger
	tokens    []string
	gen       *Generator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		fs:        filesystem.NewMockFileSystem(),
		api:       api.NewMockClient(),
		git:       git.NewMockGitClient(),
		gh:        github.NewMockClient(),
		exchanger: &github.MockExchanger{Token: "oauth-token"},
	}
	f.fs.AddDir("/workspace")
	f.api.SetArchive(projectArchive(t, "demo"))

	idx := catalog.NewIndex([]models.Extension{
		{ID: "io.quarkus:quarkus-rest", Name: "REST", Order: 1, Guide: "https://quarkus.io/guides/rest"},
		{ID: "io.quarkiverse:quarkus-foo", Name: "Foo", Order: 2},
	})

	f.gen = New(Deps{
		API: f.api,
		FS:  f.fs,
		Git: f.git,
		GitHub: func(token string) github.GitHubClient {
			f.tokens = append(f.tokens, token)
			return f.gh
		},
		Exchanger: f.exchanger,
		Index:     func() *catalog.Index { return idx },
		ShareBase: "https://code.example.com",
	})
	return f
}

func demoProject() *models.ProjectDefinition {
	p := models.NewDefaultProject()
	p.ArtifactID = "demo"
	p.Extensions = models.NewExtensionSet("io.quarkus:quarkus-rest")
	return p
}

func TestGenerate_URLs(t *testing.T) {
	f := newFixture(t)

	p := demoProject()
	p.GitHub = &models.GitHubIntent{Code: "c", State: "s"}

	result, err := f.gen.Generate(context.Background(), p, models.TargetGenerate)
	require.NoError(t, err)
	require.Equal(t, "https://code.example.com/d?a=demo&cn=codestart&e=rest", result.DownloadURL)
	require.Equal(t, "https://code.example.com/?a=demo&e=rest", result.ShareURL)
	require.Empty(t, f.api.Calls())
	require.NotNil(t, p.GitHub)
}

func TestGenerate_InvalidProject(t *testing.T) {
	f := newFixture(t)

	p := demoProject()
	p.GroupID = "not a group"

	_, err := f.gen.Generate(context.Background(), p, models.TargetGenerate)
	require.ErrorIs(t, err, ErrInvalidProject)

	_, err = f.gen.Generate(context.Background(), demoProject(), models.Target("ZIP"))
	require.Error(t, err)
}

func TestGenerate_DownloadArchive(t *testing.T) {
	f := newFixture(t)

	result, err := f.gen.Generate(context.Background(), demoProject(), models.TargetDownload)
	require.NoError(t, err)
	require.Equal(t, "/workspace/demo.zip", result.Archive)

	data, err := f.fs.ReadFile("/workspace/demo.zip")
	require.NoError(t, err)
	require.Equal(t, projectArchive(t, "demo"), data)

	_, err = f.gen.Generate(context.Background(), demoProject(), models.TargetDownload)
	require.ErrorIs(t, err, ErrTargetExists)
}

func TestGenerate_DownloadUnpack(t *testing.T) {
	f := newFixture(t)
	f.gen.Unpack = true
	f.gen.OutDir = "/projects"

	result, err := f.gen.Generate(context.Background(), demoProject(), models.TargetDownload)
	require.NoError(t, err)
	require.Equal(t, "/projects/demo", result.Path)
	require.Equal(t, []string{
		".gitignore",
		"mvnw",
		"pom.xml",
		"src/main/java/org/acme/GreetingResource.java",
	}, result.Files)

	info, err := f.fs.Stat("/projects/demo/mvnw")
	require.NoError(t, err)
	require.Equal(t, "-rwxr-xr-x", info.Mode().String())

	// ignored files are still written, only left out of the listing
	require.True(t, f.fs.Exists("/projects/demo/target/classes/GreetingResource.class"))

	_, err = f.gen.Generate(context.Background(), demoProject(), models.TargetDownload)
	require.ErrorIs(t, err, ErrTargetExists)
}

func TestGenerate_DownloadUnpackFlatArchive(t *testing.T) {
	f := newFixture(t)
	f.gen.Unpack = true
	f.api.SetArchive(buildArchive(t,
		archiveEntry{name: "pom.xml", content: "<project/>"},
		archiveEntry{name: "src/Main.java", content: "class Main {}"},
	))

	result, err := f.gen.Generate(context.Background(), demoProject(), models.TargetDownload)
	require.NoError(t, err)
	require.Equal(t, "/workspace/demo", result.Path)
	require.Equal(t, []string{"pom.xml", "src/Main.java"}, result.Files)
}

func TestGenerate_DownloadError(t *testing.T) {
	f := newFixture(t)
	f.api.DownloadError = errors.New("service unavailable")

	_, err := f.gen.Generate(context.Background(), demoProject(), models.TargetDownload)
	require.EqualError(t, err, "service unavailable")
}

func TestGenerate_GitHubWithEnvToken(t *testing.T) {
	t.Setenv("GH_TOKEN", "env-token")
	f := newFixture(t)

	result, err := f.gen.Generate(context.Background(), demoProject(), models.TargetGitHub)
	require.NoError(t, err)
	require.Equal(t, []string{"env-token"}, f.tokens)
	require.Equal(t, "https://github.com/octocat/demo", result.Repository.URL)
	require.Contains(t, result.Files, "pom.xml")

	repo, ok := f.git.Repo("/tmp/codestart-github-1/demo")
	require.True(t, ok)
	require.Len(t, repo.Commits, 1)
	require.Equal(t, "octocat", repo.Commits[0].Author.Name)
	require.Equal(t, "https://github.com/octocat/demo.git", repo.Remotes["origin"])
	require.Equal(t, "commit001", repo.Pushed["origin/main"])
	require.Equal(t, []git.PushAuth{{Token: "env-token"}}, repo.Auth)

	require.False(t, f.fs.Exists("/tmp/codestart-github-1"))
}

func TestGenerate_GitHubWithOAuthCode(t *testing.T) {
	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	f := newFixture(t)

	p := demoProject()
	p.GitHub = &models.GitHubIntent{Code: "abc", State: "xyz"}

	_, err := f.gen.Generate(context.Background(), p, models.TargetGitHub)
	require.NoError(t, err)
	require.Equal(t, []string{"abc"}, f.exchanger.Codes)
	require.Equal(t, []string{"oauth-token"}, f.tokens)

	for _, call := range f.api.Calls() {
		require.NotContains(t, call, "code=")
	}
}

func TestGenerate_GitHubNoToken(t *testing.T) {
	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	f := newFixture(t)

	_, err := f.gen.Generate(context.Background(), demoProject(), models.TargetGitHub)
	require.ErrorIs(t, err, github.ErrGitHubTokenNotFound)
}

func TestGenerate_GitHubRepositoryExists(t *testing.T) {
	t.Setenv("GH_TOKEN", "env-token")
	f := newFixture(t)
	f.gh.SetupRepository("octocat", "demo")

	_, err := f.gen.Generate(context.Background(), demoProject(), models.TargetGitHub)
	require.ErrorIs(t, err, github.ErrRepositoryExists)
	require.Contains(t, err.Error(), "there is already a project named 'demo' on your GitHub")
	require.Empty(t, f.api.Calls())
}

func TestGenerate_GitHubPushFailure(t *testing.T) {
	t.Setenv("GH_TOKEN", "env-token")
	f := newFixture(t)
	f.git.PushError = errors.New("remote rejected")

	_, err := f.gen.Generate(context.Background(), demoProject(), models.TargetGitHub)
	require.EqualError(t, err, "remote rejected")
	require.False(t, f.fs.Exists("/tmp/codestart-github-1"))
}

func TestSanitizeEntry(t *testing.T) {
	tests := map[string]string{
		"demo/pom.xml":          "demo/pom.xml",
		"/abs/file":             "abs/file",
		"../../etc/passwd":      "etc/passwd",
		"demo/./src/../pom.xml": "demo/pom.xml",
		"C:/windows/file":       "windows/file",
		"./":                    "",
	}
	for in, want := range tests {
		require.Equal(t, want, sanitizeEntry(in), in)
	}
}

func TestUnpack_ZipSlip(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	data := buildArchive(t, archiveEntry{name: "../../evil.sh", content: "rm -rf /"})

	written, err := Unpack(fs, data, "/out")
	require.NoError(t, err)
	require.Equal(t, []string{"evil.sh"}, written)
	require.True(t, fs.Exists("/out/evil.sh"))
	require.False(t, fs.Exists("/evil.sh"))

	_, err = Unpack(fs, []byte("not a zip"), "/out")
	require.Error(t, err)
}

func TestRenderTree(t *testing.T) {
	out := RenderTree("demo", []string{
		".gitignore",
		"pom.xml",
		"src/main/java/org/acme/GreetingResource.java",
		"src/main/resources/application.properties",
		"src/test/java/org/acme/GreetingResourceTest.java",
	})
	snaps.MatchSnapshot(t, out)
}

func TestNextSteps(t *testing.T) {
	exts := []models.Extension{
		{ID: "io.quarkus:quarkus-rest", Name: "REST", Guide: "https://quarkus.io/guides/rest"},
		{ID: "io.quarkiverse:quarkus-foo", Name: "Foo"},
	}

	t.Run("generate", func(t *testing.T) {
		out, err := NextSteps(&Result{
			Target:      models.TargetGenerate,
			DownloadURL: "https://code.example.com/d?a=demo&cn=codestart",
			ShareURL:    "https://code.example.com/?a=demo",
		}, demoProject(), exts)
		require.NoError(t, err)
		snaps.MatchSnapshot(t, out)
	})

	t.Run("download archive", func(t *testing.T) {
		out, err := NextSteps(&Result{Target: models.TargetDownload, Archive: "/workspace/demo.zip"}, demoProject(), nil)
		require.NoError(t, err)
		snaps.MatchSnapshot(t, out)
	})

	t.Run("unpacked gradle", func(t *testing.T) {
		p := demoProject()
		p.BuildTool = models.BuildToolGradleKotlinDSL
		p.JavaVersion = "21"
		p.NoCode = true
		out, err := NextSteps(&Result{Target: models.TargetDownload, Path: "/workspace/demo"}, p, exts[:1])
		require.NoError(t, err)
		snaps.MatchSnapshot(t, out)
	})

	t.Run("github", func(t *testing.T) {
		out, err := NextSteps(&Result{
			Target: models.TargetGitHub,
			Repository: &github.Repository{
				Name:     "demo",
				URL:      "https://github.com/octocat/demo",
				CloneURL: "https://github.com/octocat/demo.git",
			},
		}, demoProject(), exts)
		require.NoError(t, err)
		snaps.MatchSnapshot(t, out)
	})
}
