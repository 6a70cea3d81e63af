package cli

import (
	"context"
	"fmt"

	"github.com/jakoblorz/go-codestart/internal/catalog"
	"github.com/jakoblorz/go-codestart/internal/project"
	"github.com/jakoblorz/go-codestart/internal/tui/picker"
	"github.com/spf13/cobra"
)

// NewCommand runs the interactive picker
type NewCommand struct {
	deps *Deps
}

// NewNewCommand creates the new command
func NewNewCommand(deps *Deps) *cobra.Command {
	cmd := &NewCommand{deps: deps}

	cobraCmd := &cobra.Command{
		Use:   "new",
		Short: "Pick extensions and generate a project interactively",
		Long: `Opens the extension picker. The project starts from --from-url when given,
else from the project remembered by the last session, else from defaults.`,
		Annotations: map[string]string{interactiveAnnotation: "true"},
		RunE:        cmd.Run,
	}

	cobraCmd.Flags().String(fromURLFlag, "", "Start from a shared project URL or query string")
	cobraCmd.Flags().String("out", "", "Directory DOWNLOAD writes to (default: working directory)")
	cobraCmd.Flags().Bool("unpack", true, "Unpack downloaded projects instead of saving the zip")

	return cobraCmd
}

// Run executes the new command
func (c *NewCommand) Run(cmd *cobra.Command, args []string) error {
	d := c.deps

	initial := project.ResolveInitial(queryFromFlags(cmd), d.Store, d.Log)
	d.Log.Info("starting picker", "source", initial.Source)

	localPresets, err := d.Presets.ReadAll()
	if err != nil {
		d.Log.Warn("failed to read local presets", "dir", d.Presets.Dir(), "error", err)
	}

	session := catalog.NewSession()
	urlSink := project.NewURLSink(d.Config.APIURL, session.Index)
	sync := project.NewSynchronizer(d.Config.SyncInterval, d.Log, urlSink, project.NewStoreSink(d.Store))

	m := picker.New(picker.Deps{
		API:          d.API,
		Session:      session,
		Sync:         sync,
		URL:          urlSink,
		Store:        d.Store,
		Log:          d.Log,
		LocalPresets: localPresets,
	}, initial.Project, initial.Filter)

	final, runErr := d.RunPicker(m)

	// the last edit may still be settling
	if err := sync.Flush(); err != nil {
		d.Log.Warn("failed to save project", "error", err)
	}
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}

	if final.Action() != picker.ActionGenerate {
		return nil
	}

	p := final.Project()
	gen := d.generator(session.Index)
	gen.OutDir, _ = cmd.Flags().GetString("out")
	gen.Unpack, _ = cmd.Flags().GetBool("unpack")

	result, err := gen.Generate(context.Background(), p, final.Target())
	if err != nil {
		return fmt.Errorf("failed to generate project: %w", err)
	}

	// a finished project is not reopened by the next session
	sync.Discard()
	if _, err := project.Reset(d.Store); err != nil {
		d.Log.Warn("failed to reset project", "error", err)
	}

	return printNextSteps(cmd, result, p, session.Index().Map(p.Extensions).Mapped)
}
