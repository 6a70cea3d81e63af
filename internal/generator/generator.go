package generator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jakoblorz/go-codestart/internal/api"
	"github.com/jakoblorz/go-codestart/internal/catalog"
	"github.com/jakoblorz/go-codestart/internal/filesystem"
	"github.com/jakoblorz/go-codestart/internal/git"
	"github.com/jakoblorz/go-codestart/internal/github"
	"github.com/jakoblorz/go-codestart/internal/logger"
	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/jakoblorz/go-codestart/internal/project"
)

var (
	ErrInvalidProject = errors.New("project is not valid")
	ErrTargetExists   = errors.New("target directory already exists")
)

// Result describes a generated project
type Result struct {
	Target      models.Target
	DownloadURL string
	ShareURL    string

	// Archive is the zip written by a DOWNLOAD without unpacking
	Archive string

	// Path is the directory the project was unpacked into
	Path string

	// Files lists the unpacked files, gitignore filtered
	Files []string

	Repository *github.Repository
}

// GitHubFactory creates a client authenticated with token
type GitHubFactory func(token string) github.GitHubClient

// Deps are the collaborators of a Generator
type Deps struct {
	API       api.Client
	FS        filesystem.FileSystem
	Git       git.GitClient
	GitHub    GitHubFactory
	Exchanger github.Exchanger
	Log       *logger.Logger

	// Index resolves extension shortcuts for the download and share URLs
	Index func() *catalog.Index

	// ShareBase is the address share URLs point to
	ShareBase string
}

// Generator turns a project definition into an archive, a directory or a
// GitHub repository
type Generator struct {
	deps Deps

	// OutDir is where DOWNLOAD writes its result, the working directory
	// when empty
	OutDir string

	// Unpack makes DOWNLOAD extract the archive instead of saving it
	Unpack bool
}

// New creates a Generator
func New(deps Deps) *Generator {
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	if deps.GitHub == nil {
		deps.GitHub = func(token string) github.GitHubClient { return github.NewClient(token) }
	}
	return &Generator{deps: deps}
}

func (g *Generator) index() *catalog.Index {
	if g.deps.Index == nil {
		return nil
	}
	return g.deps.Index()
}

// Generate produces the project for target.
func (g *Generator) Generate(ctx context.Context, p *models.ProjectDefinition, target models.Target) (*Result, error) {
	if !target.IsValid() {
		return nil, fmt.Errorf("invalid target: %s", target)
	}
	if errs := project.Validate(p); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidProject, strings.Join(msgs, "; "))
	}

	// The OAuth round trip never belongs in a download or share link.
	clean := project.Apply(p, project.WithoutGitHub())
	idx := g.index()
	query := project.ShareQuery(clean, idx)

	result := &Result{
		Target:      target,
		DownloadURL: g.deps.API.DownloadURL(query),
		ShareURL:    project.URL(g.deps.ShareBase, clean, idx),
	}

	g.deps.Log.Info("generating project", "target", target, "artifactId", p.ArtifactID,
		"extensions", len(p.Extensions))

	switch target {
	case models.TargetGenerate:
		return result, nil
	case models.TargetDownload:
		return g.download(ctx, p, result)
	default:
		return g.pushToGitHub(ctx, p, result)
	}
}

func (g *Generator) outDir() (string, error) {
	if g.OutDir != "" {
		return g.OutDir, nil
	}
	wd, err := g.deps.FS.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

func (g *Generator) fetchArchive(ctx context.Context, p *models.ProjectDefinition) ([]byte, error) {
	clean := project.Apply(p, project.WithoutGitHub())
	data, err := g.deps.API.Download(ctx, project.ShareQuery(clean, g.index()))
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (g *Generator) download(ctx context.Context, p *models.ProjectDefinition, result *Result) (*Result, error) {
	out, err := g.outDir()
	if err != nil {
		return nil, err
	}

	data, err := g.fetchArchive(ctx, p)
	if err != nil {
		return nil, err
	}

	if !g.Unpack {
		archive := filepath.Join(out, p.ArtifactID+".zip")
		if g.deps.FS.Exists(archive) {
			return nil, fmt.Errorf("%w: %s", ErrTargetExists, archive)
		}
		if err := g.deps.FS.MkdirAll(out, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", out, err)
		}
		if err := g.deps.FS.WriteFile(archive, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", archive, err)
		}
		result.Archive = archive
		return result, nil
	}

	path, files, err := g.unpack(data, out, p.ArtifactID)
	if err != nil {
		return nil, err
	}
	result.Path = path
	result.Files = files
	return result, nil
}

// unpack extracts data into out/artifactID. Archives from the service
// already nest the project in a directory named after the artifact.
func (g *Generator) unpack(data []byte, out, artifactID string) (string, []string, error) {
	path := filepath.Join(out, artifactID)
	if g.deps.FS.Exists(path) {
		return "", nil, fmt.Errorf("%w: %s", ErrTargetExists, path)
	}

	root, err := archiveRoot(data)
	if err != nil {
		return "", nil, err
	}

	dest := path
	if root == artifactID {
		dest = out
	}
	if _, err := Unpack(g.deps.FS, data, dest); err != nil {
		return "", nil, err
	}

	files, err := Tree(g.deps.FS, path)
	if err != nil {
		return "", nil, err
	}
	return path, files, nil
}
