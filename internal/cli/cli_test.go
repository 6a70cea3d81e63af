package cli

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/jakoblorz/go-codestart/internal/api"
	"github.com/jakoblorz/go-codestart/internal/config"
	"github.com/jakoblorz/go-codestart/internal/filesystem"
	"github.com/jakoblorz/go-codestart/internal/git"
	"github.com/jakoblorz/go-codestart/internal/github"
	"github.com/jakoblorz/go-codestart/internal/logger"
	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/jakoblorz/go-codestart/internal/presets"
	"github.com/jakoblorz/go-codestart/internal/project"
	"github.com/jakoblorz/go-codestart/internal/storage"
	"github.com/jakoblorz/go-codestart/internal/tui/picker"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

const testConfigDir = "/home/user/.config/codestart"

func TestMain(m *testing.M) {
	// snapshots hold plain text whatever terminal runs the tests
	lipgloss.SetColorProfile(termenv.Ascii)

	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func testPlatform() *models.Platform {
	return &models.Platform{
		Extensions: []models.Extension{
			{ID: "io.quarkus:quarkus-rest", Name: "REST", Category: "Web", Order: 1, Platform: true, Tags: []string{"status:stable"}, Guide: "https://quarkus.io/guides/rest"},
			{ID: "io.quarkus:quarkus-rest-jackson", Name: "REST Jackson", Category: "Web", Order: 2, Platform: true, Keywords: []string{"json"}},
			{ID: "io.quarkus:quarkus-jdbc-postgresql", Name: "JDBC Driver - PostgreSQL", Category: "Data", Order: 3, Platform: true},
			{ID: "io.quarkiverse:quarkus-foo", Name: "Foo", Category: "Miscellaneous", Order: 4, Tags: []string{"status:preview", "with:starter-code"}},
		},
		Streams: []models.Stream{
			{Key: "io.quarkus.platform:3.2", PlatformVersion: "3.2.10.Final", Status: "FINAL", LTS: true, JavaCompatibility: models.JavaCompatibility{Versions: []int{11, 17}}},
			{Key: "io.quarkus.platform:3.8", PlatformVersion: "3.8.2.Final", Status: "FINAL", Recommended: true, JavaCompatibility: models.JavaCompatibility{Versions: []int{17, 21}}},
			{Key: "io.quarkus.platform:3.9", PlatformVersion: "3.9.0.CR1", Status: "CR"},
		},
		Presets: []models.Preset{
			{Key: "db", Title: "Database", Icon: "🗄", Extensions: []string{"jdbc-postgresql", "io.quarkus:quarkus-hibernate-orm"}},
		},
		Tags: api.DefaultTags(),
	}
}

func testArchive(t *testing.T, root string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		root + "/pom.xml":    "<project/>",
		root + "/.gitignore": "target/\n",
		root + "/README.md":  "# demo\n",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

type cliFixture struct {
	fs    *filesystem.MockFileSystem
	api   *api.MockClient
	git   *git.MockGitClient
	gh    *github.MockClient
	store *storage.MemoryStore
	deps  *Deps
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	f := &cliFixture{
		fs:    filesystem.NewMockFileSystem(),
		api:   api.NewMockClient(),
		git:   git.NewMockGitClient(),
		gh:    github.NewMockClient(),
		store: storage.NewMemoryStore(),
	}
	f.fs.AddDir("/workspace")
	f.api.SetPlatform("", testPlatform())
	f.api.SetArchive(testArchive(t, "demo"))

	cfg := config.Default(testConfigDir)
	cfg.APIURL = "https://code.example.com"

	log := logger.NewNop()
	f.deps = &Deps{
		FS:      f.fs,
		Git:     f.git,
		API:     f.api,
		Store:   f.store,
		GitHub:  func(token string) github.GitHubClient { return f.gh },
		Presets: presets.NewManager(f.fs, cfg.PresetsDir(), log),
		Config:  cfg,
		Log:     log,
	}
	return f
}

func (f *cliFixture) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(f.deps)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSearch_Text(t *testing.T) {
	f := newCLIFixture(t)

	out, _, err := f.run(t, "search", "rest")
	require.NoError(t, err)
	require.Contains(t, out, "2 extension(s):")
	require.Contains(t, out, "rest-jackson")

	snaps.MatchSnapshot(t, out)
}

func TestSearch_Facets(t *testing.T) {
	f := newCLIFixture(t)

	out, _, err := f.run(t, "search", "--facets", "--facet", "category=Web")
	require.NoError(t, err)
	require.Contains(t, out, "2 extension(s):")
	require.Contains(t, out, "category: ")

	snaps.MatchSnapshot(t, out)
}

func TestSearch_InvalidFacet(t *testing.T) {
	f := newCLIFixture(t)

	_, _, err := f.run(t, "search", "--facet", "category")
	require.ErrorContains(t, err, "expected key=value")
}

func TestSearch_Strict(t *testing.T) {
	f := newCLIFixture(t)

	_, _, err := f.run(t, "search", "--strict", `name:"unterminated`)
	require.ErrorContains(t, err, "invalid query")

	// the lenient parser searches anyway
	_, _, err = f.run(t, "search", `name:"unterminated`)
	require.NoError(t, err)
}

func TestSearch_JSON(t *testing.T) {
	f := newCLIFixture(t)

	out, _, err := f.run(t, "search", "--json", "status:preview")
	require.NoError(t, err)

	var result SearchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Equal(t, "status:preview", result.Query)
	require.Len(t, result.Results, 1)
	require.Equal(t, "foo", result.Results[0].Shortcut)
	require.Equal(t, "io.quarkiverse:quarkus-foo", result.Results[0].ID)
}

func TestSearch_CatalogUnavailable(t *testing.T) {
	f := newCLIFixture(t)
	f.api.FetchPlatformError = &api.StatusError{URL: "/api/extensions", StatusCode: 503}

	_, _, err := f.run(t, "search", "rest")
	require.ErrorContains(t, err, "failed to load the extension catalog")
}

func TestStreams(t *testing.T) {
	f := newCLIFixture(t)

	out, _, err := f.run(t, "streams")
	require.NoError(t, err)
	require.Contains(t, out, "* 3.8")

	snaps.MatchSnapshot(t, out)
}

func TestPresets_ListSaveDelete(t *testing.T) {
	f := newCLIFixture(t)

	out, _, err := f.run(t, "presets", "save", "My Stack", "-e", "rest,foo")
	require.NoError(t, err)
	require.Contains(t, out, "✓ Saved preset my-stack (2 extensions)")
	require.True(t, f.fs.Exists(testConfigDir+"/presets/my-stack.md"))

	out, _, err = f.run(t, "presets")
	require.NoError(t, err)
	require.Contains(t, out, "Database [db] (service)")
	require.Contains(t, out, "not in this catalog: io.quarkus:quarkus-hibernate-orm")
	require.Contains(t, out, "My Stack [my-stack] (local)")
	require.Contains(t, out, "rest, foo")

	out, _, err = f.run(t, "presets", "delete", "my-stack")
	require.NoError(t, err)
	require.Contains(t, out, "✓ Deleted preset my-stack")
	require.False(t, f.fs.Exists(testConfigDir+"/presets/my-stack.md"))
}

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "defaults",
			args: []string{"url"},
			want: "https://code.example.com/\n",
		},
		{
			name: "flags shorten extensions",
			args: []string{"url", "-a", "demo", "-e", "io.quarkus:quarkus-rest,foo"},
			want: "https://code.example.com/?a=demo&e=foo&e=rest\n",
		},
		{
			name: "from url with override",
			args: []string{"url", "--from-url", "https://code.quarkus.io/?g=com.example&e=rest&github=true&code=c&state=s", "-b", "gradle"},
			want: "https://code.example.com/?b=GRADLE&e=rest&g=com.example\n",
		},
		{
			name: "download",
			args: []string{"url", "--download", "-a", "demo"},
			want: "https://code.example.com/d?a=demo&cn=codestart\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCLIFixture(t)
			out, _, err := f.run(t, tt.args...)
			require.NoError(t, err)
			require.Equal(t, tt.want, out)
		})
	}
}

func TestURL_InvalidBuildTool(t *testing.T) {
	f := newCLIFixture(t)

	_, _, err := f.run(t, "url", "-b", "ant")
	require.Error(t, err)
}

func TestGenerate_Links(t *testing.T) {
	f := newCLIFixture(t)

	out, _, err := f.run(t, "generate", "-t", "generate", "-a", "demo", "-e", "rest")
	require.NoError(t, err)
	require.Contains(t, out, "✓ Project generated")
	require.Contains(t, out, "Download: https://code.example.com/d?a=demo&cn=codestart&e=rest")
	require.Contains(t, out, "Share:    https://code.example.com/?a=demo&e=rest")
	require.Contains(t, out, "- REST (https://quarkus.io/guides/rest)")
	require.Empty(t, f.api.Calls()[1:])
}

func TestGenerate_Download(t *testing.T) {
	f := newCLIFixture(t)

	_, _, err := f.run(t, "generate", "-a", "demo", "-e", "rest", "--out", "/workspace/out")
	require.NoError(t, err)
	require.True(t, f.fs.Exists("/workspace/out/demo.zip"))

	_, _, err = f.run(t, "generate", "-a", "demo", "-e", "rest", "--out", "/workspace/out")
	require.ErrorContains(t, err, "already exists")
}

func TestGenerate_Unpack(t *testing.T) {
	f := newCLIFixture(t)

	out, _, err := f.run(t, "generate", "-a", "demo", "--unpack")
	require.NoError(t, err)
	require.True(t, f.fs.Exists("/workspace/demo/pom.xml"))
	require.Contains(t, out, "Your project \"demo\" is ready in /workspace/demo")
	require.Contains(t, out, "  pom.xml")
}

func TestGenerate_UnknownExtension(t *testing.T) {
	f := newCLIFixture(t)

	_, _, err := f.run(t, "generate", "-e", "rest,rest-jacksn")
	require.ErrorContains(t, err, "unknown extensions: rest-jacksn")
}

func TestGenerate_InvalidProject(t *testing.T) {
	f := newCLIFixture(t)

	_, stderr, err := f.run(t, "generate", "-a", "Not Valid")
	require.ErrorContains(t, err, "project is not valid")
	require.Contains(t, stderr, "✗ artifactId")
}

func TestGenerate_UsesStoredProject(t *testing.T) {
	f := newCLIFixture(t)
	stored := models.NewDefaultProject()
	stored.ArtifactID = "remembered"
	require.NoError(t, project.SaveStored(f.store, stored))

	out, _, err := f.run(t, "generate", "-t", "GENERATE", "--save", "-e", "foo")
	require.NoError(t, err)
	require.Contains(t, out, "a=remembered")

	loaded, err := project.LoadStored(f.store)
	require.NoError(t, err)
	require.Equal(t, []string{"io.quarkiverse:quarkus-foo"}, loaded.Extensions.Sorted())
}

func TestGenerate_GitHub(t *testing.T) {
	t.Run("without token", func(t *testing.T) {
		f := newCLIFixture(t)

		_, stderr, err := f.run(t, "generate", "-t", "github", "-a", "demo")
		require.ErrorIs(t, err, github.ErrGitHubTokenNotFound)
		require.Contains(t, stderr, "Set GH_TOKEN or GITHUB_TOKEN")
	})

	t.Run("authorize hint", func(t *testing.T) {
		f := newCLIFixture(t)
		f.deps.Exchanger = github.NewOAuthExchanger("client-id", "secret", "")

		_, stderr, err := f.run(t, "generate", "-t", "github", "-a", "demo")
		require.Error(t, err)
		require.Contains(t, stderr, "https://github.com/login/oauth/authorize?")
		require.Contains(t, stderr, "client_id=client-id")
	})

	t.Run("with token", func(t *testing.T) {
		f := newCLIFixture(t)
		t.Setenv("GH_TOKEN", "token")

		out, _, err := f.run(t, "generate", "-t", "github", "-a", "demo", "-e", "rest")
		require.NoError(t, err)
		require.Contains(t, out, "has been pushed to GitHub")

		repos := f.gh.GetAllRepositories()
		require.Len(t, repos, 1)
		require.Equal(t, "demo", repos[0].Name)
	})
}

func TestReset(t *testing.T) {
	f := newCLIFixture(t)
	require.NoError(t, project.SaveStored(f.store, models.NewDefaultProject()))

	out, _, err := f.run(t, "reset")
	require.NoError(t, err)
	require.Contains(t, out, "✓ Project reset to defaults")

	_, ok, err := f.store.Get(project.StoreKey)
	require.NoError(t, err)
	require.False(t, ok)
}

// drive feeds the first fetch and then keys into the picker, the way the
// bubbletea runtime would
func drive(keys ...tea.KeyMsg) func(m picker.Model) (picker.Model, error) {
	return func(m picker.Model) (picker.Model, error) {
		var msgs []tea.Msg
		switch msg := m.Init()().(type) {
		case tea.BatchMsg:
			for _, cmd := range msg {
				if cmd != nil {
					msgs = append(msgs, cmd())
				}
			}
		default:
			msgs = append(msgs, msg)
		}
		for _, k := range keys {
			msgs = append(msgs, k)
		}

		for _, msg := range msgs {
			updated, _ := m.Update(msg)
			m = updated.(picker.Model)
		}
		return m, nil
	}
}

func TestNew_RemembersProject(t *testing.T) {
	f := newCLIFixture(t)
	f.deps.RunPicker = drive(tea.KeyMsg{Type: tea.KeyCtrlC})

	out, _, err := f.run(t, "new", "--from-url", "?a=demo&e=rest")
	require.NoError(t, err)
	require.Empty(t, out)

	stored, err := project.LoadStored(f.store)
	require.NoError(t, err)
	require.Equal(t, "demo", stored.ArtifactID)
	require.Equal(t, []string{"io.quarkus:quarkus-rest"}, stored.Extensions.Sorted())
}

func TestNew_Generates(t *testing.T) {
	f := newCLIFixture(t)
	f.deps.RunPicker = drive(
		tea.KeyMsg{Type: tea.KeyCtrlG},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	// the root command defaults to the picker
	out, _, err := f.run(t, "--from-url", "?a=demo&e=rest")
	require.NoError(t, err)
	require.Contains(t, out, "Download: https://code.example.com/d?a=demo&cn=codestart&e=rest")

	_, found, err := f.store.Get(project.StoreKey)
	require.NoError(t, err)
	require.False(t, found)
}

func TestNew_FailedGenerateKeepsProject(t *testing.T) {
	f := newCLIFixture(t)
	f.api.DownloadError = errors.New("service unavailable")
	f.deps.RunPicker = drive(
		tea.KeyMsg{Type: tea.KeyCtrlG},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	_, _, err := f.run(t, "new", "--from-url", "?a=demo&e=rest")
	require.Error(t, err)

	stored, err := project.LoadStored(f.store)
	require.NoError(t, err)
	require.Equal(t, "demo", stored.ArtifactID)
}
