package e2e_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jakoblorz/go-codestart/internal/cli"
	"github.com/jakoblorz/go-codestart/internal/config"
	"github.com/jakoblorz/go-codestart/internal/filesystem"
	"github.com/jakoblorz/go-codestart/internal/git"
	"github.com/jakoblorz/go-codestart/internal/logger"
	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/jakoblorz/go-codestart/internal/storage"
	"github.com/stretchr/testify/require"
)

func projectArchive(t *testing.T, artifactID string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		artifactID + "/pom.xml":                         "<project/>",
		artifactID + "/.gitignore":                      "target/\n",
		artifactID + "/src/main/java/org/acme/App.java": "class App {}",
		artifactID + "/target/app.jar":                  "jar",
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// newService fakes the code generation service
func newService(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var downloads []string

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/extensions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []models.Extension{
			{ID: "io.quarkus:quarkus-rest", Name: "REST", Category: "Web", Order: 1, Platform: true},
			{ID: "io.quarkus:quarkus-jdbc-postgresql", Name: "JDBC Driver - PostgreSQL", Category: "Data", Order: 2, Platform: true},
			{ID: "io.quarkiverse:quarkus-foo", Name: "Foo", Category: "Misc", Order: 3, Tags: []string{"status:preview"}},
		})
	})
	mux.HandleFunc("/api/streams", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []models.Stream{
			{Key: "io.quarkus.platform:3.8", PlatformVersion: "3.8.2.Final", Recommended: true},
		})
	})
	mux.HandleFunc("/api/presets", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/d", func(w http.ResponseWriter, r *http.Request) {
		downloads = append(downloads, r.URL.RawQuery)
		_, _ = w.Write(projectArchive(t, r.URL.Query().Get("a")))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &downloads
}

type runner struct {
	cfg *config.Config
}

// run executes one codestart invocation with fresh dependencies, the way
// separate processes would
func (r *runner) run(t *testing.T, args ...string) string {
	t.Helper()
	cfg := *r.cfg
	deps := &cli.Deps{
		FS:     filesystem.NewOSFileSystem(),
		Git:    git.NewMockGitClient(),
		Config: &cfg,
		Log:    logger.NewNop(),
	}

	var out bytes.Buffer
	cmd := cli.NewRootCommand(deps)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

func TestFullWorkflow(t *testing.T) {
	srv, downloads := newService(t)
	dir := t.TempDir()

	cfg := config.Default(dir)
	cfg.APIURL = srv.URL
	cfg.Store = storage.KindSQLite
	r := &runner{cfg: cfg}

	// Search the catalog
	out := r.run(t, "search", "--json", "status:preview")
	var found cli.SearchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &found))
	require.Len(t, found.Results, 1)
	require.Equal(t, "foo", found.Results[0].Shortcut)

	// Generate and remember a project
	outDir := filepath.Join(dir, "out")
	out = r.run(t, "generate", "-a", "demo", "-e", "rest,jdbc-postgresql", "--unpack", "--out", outDir, "--save")
	require.Contains(t, out, "✓ Project generated")
	require.Equal(t, []string{"a=demo&cn=codestart&e=jdbc-postgresql&e=rest"}, *downloads)

	data, err := os.ReadFile(filepath.Join(outDir, "demo", "pom.xml"))
	require.NoError(t, err)
	require.Equal(t, "<project/>", string(data))
	require.Contains(t, out, "App.java")
	require.NotContains(t, out, "app.jar")

	// The remembered project survives across invocations
	require.FileExists(t, filepath.Join(dir, "state.db"))
	out = r.run(t, "generate", "-t", "generate")
	require.Contains(t, out, "Share:    "+srv.URL+"/?a=demo&e=jdbc-postgresql&e=rest")

	// Share URLs round trip
	out = r.run(t, "url", "--from-url", srv.URL+"/?a=demo&e=rest", "-e", "foo,rest")
	require.Equal(t, srv.URL+"/?a=demo&e=foo&e=rest\n", out)

	// Reset forgets it
	out = r.run(t, "reset")
	require.Contains(t, out, "✓ Project reset to defaults")

	out = r.run(t, "generate", "-t", "generate")
	require.Contains(t, out, "Share:    "+srv.URL+"/\n")
	require.Len(t, *downloads, 1)
}
