package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jakoblorz/go-codestart/internal/api"
	"github.com/jakoblorz/go-codestart/internal/catalog"
	"github.com/jakoblorz/go-codestart/internal/config"
	"github.com/jakoblorz/go-codestart/internal/filesystem"
	"github.com/jakoblorz/go-codestart/internal/generator"
	"github.com/jakoblorz/go-codestart/internal/git"
	"github.com/jakoblorz/go-codestart/internal/github"
	"github.com/jakoblorz/go-codestart/internal/logger"
	"github.com/jakoblorz/go-codestart/internal/presets"
	"github.com/jakoblorz/go-codestart/internal/storage"
	"github.com/jakoblorz/go-codestart/internal/tui/picker"
	"github.com/spf13/cobra"
)

const (
	configFlag = "config"
	apiURLFlag = "api-url"
	storeFlag  = "store"

	// interactiveAnnotation marks commands that draw on the terminal and
	// therefore log to a file
	interactiveAnnotation = "interactive"
)

// Deps are the collaborators shared by every command. Fields left nil are
// filled from the configuration before a command runs.
type Deps struct {
	FS        filesystem.FileSystem
	Git       git.GitClient
	API       api.Client
	Store     storage.Store
	Exchanger github.Exchanger
	GitHub    generator.GitHubFactory
	Presets   *presets.Manager
	Config    *config.Config
	Log       *logger.Logger

	// RunPicker runs the interactive picker until it quits
	RunPicker func(m picker.Model) (picker.Model, error)
}

func runPicker(m picker.Model) (picker.Model, error) {
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return m, err
	}
	result, ok := final.(picker.Model)
	if !ok {
		return m, fmt.Errorf("unexpected picker model %T", final)
	}
	return result, nil
}

// setup completes d for cmd: configuration, then logging, then the store
// and the service client.
func (d *Deps) setup(cmd *cobra.Command) error {
	if d.FS == nil {
		d.FS = filesystem.NewOSFileSystem()
	}

	if d.Config == nil {
		path, _ := cmd.Flags().GetString(configFlag)
		cfg, err := config.Load(d.FS, path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		d.Config = cfg
	}
	if err := applyConfigFlags(cmd, d.Config); err != nil {
		return err
	}

	if d.Log == nil {
		var outputs []string
		if cmd.Annotations[interactiveAnnotation] == "true" {
			if err := d.FS.MkdirAll(d.Config.Dir, 0755); err != nil {
				return fmt.Errorf("failed to create %s: %w", d.Config.Dir, err)
			}
			outputs = append(outputs, d.Config.LogPath())
		}
		log, err := logger.New(d.Config.LogMode, outputs...)
		if err != nil {
			return err
		}
		d.Log = log
	}

	if d.Store == nil {
		store, err := storage.Open(d.Config.Store, d.FS, d.Config.StateDir())
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		d.Store = store
	}

	if d.API == nil {
		d.API = api.NewHTTPClient(d.Config.APIURL, d.Config.ClientName, api.WithLogger(d.Log))
	}
	if d.Git == nil {
		d.Git = git.NewOSGitClient()
	}
	if d.Exchanger == nil && d.Config.GitHub.ClientID != "" {
		d.Exchanger = github.NewOAuthExchanger(d.Config.GitHub.ClientID, d.Config.GitHub.ClientSecret, d.Config.GitHub.RedirectURL)
	}
	if d.Presets == nil {
		d.Presets = presets.NewManager(d.FS, d.Config.PresetsDir(), d.Log)
	}
	if d.RunPicker == nil {
		d.RunPicker = runPicker
	}
	return nil
}

// applyConfigFlags lets persistent flags override the loaded configuration
func applyConfigFlags(cmd *cobra.Command, cfg *config.Config) error {
	if flag := cmd.Flag(apiURLFlag); flag != nil && flag.Changed {
		cfg.APIURL = flag.Value.String()
	}
	if flag := cmd.Flag(storeFlag); flag != nil && flag.Changed {
		kind, err := storage.ParseKind(flag.Value.String())
		if err != nil {
			return err
		}
		cfg.Store = kind
	}
	return cfg.Validate()
}

// close releases what setup opened
func (d *Deps) close() {
	if d.Store != nil {
		_ = d.Store.Close()
	}
	if d.Log != nil {
		d.Log.Sync()
	}
}

func (d *Deps) generator(index func() *catalog.Index) *generator.Generator {
	return generator.New(generator.Deps{
		API:       d.API,
		FS:        d.FS,
		Git:       d.Git,
		GitHub:    d.GitHub,
		Exchanger: d.Exchanger,
		Log:       d.Log,
		Index:     index,
		ShareBase: d.Config.APIURL,
	})
}
