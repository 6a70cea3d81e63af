package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jakoblorz/go-codestart/internal/catalog"
	"github.com/jakoblorz/go-codestart/internal/github"
	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/jakoblorz/go-codestart/internal/project"
	"github.com/spf13/cobra"
)

// GenerateCommand generates a project without the picker
type GenerateCommand struct {
	deps *Deps
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand(deps *Deps) *cobra.Command {
	cmd := &GenerateCommand{deps: deps}

	cobraCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a project without the picker",
		Long: `Generate a project from flags. The project starts from --from-url when
given, else from the project remembered by the last session, else from
defaults; flags override single fields.

Targets:
  DOWNLOAD  save the project zip (or unpack it with --unpack)
  GENERATE  print the download and share URLs
  GITHUB    push the project to a new GitHub repository (GH_TOKEN, GITHUB_TOKEN,
            or the code and state of an OAuth round trip in --from-url)`,
		RunE: cmd.Run,
	}

	addProjectFlags(cobraCmd)
	cobraCmd.Flags().StringP("target", "t", string(models.TargetDownload), "DOWNLOAD, GENERATE, or GITHUB")
	cobraCmd.Flags().StringP("out", "o", "", "Directory DOWNLOAD writes to (default: working directory)")
	cobraCmd.Flags().Bool("unpack", false, "Unpack the project instead of saving the zip")
	cobraCmd.Flags().Bool("save", false, "Remember the project for the next session")

	return cobraCmd
}

// Run executes the generate command
func (c *GenerateCommand) Run(cmd *cobra.Command, args []string) error {
	d := c.deps
	rawTarget, _ := cmd.Flags().GetString("target")
	save, _ := cmd.Flags().GetBool("save")

	target, err := models.ParseTarget(rawTarget)
	if err != nil {
		return err
	}

	initial := project.ResolveInitial(queryFromFlags(cmd), d.Store, d.Log)
	p, err := projectFromFlags(cmd, initial.Project)
	if err != nil {
		return err
	}

	_, idx, err := fetchCatalog(context.Background(), d.API, p.StreamKey, p.PlatformOnly)
	if err != nil {
		return fmt.Errorf("failed to load the extension catalog: %w", err)
	}
	if p, err = mapProjectExtensions(p, idx); err != nil {
		return err
	}

	if errs := project.Validate(p); len(errs) > 0 {
		for _, fe := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s\n", fe.Error())
		}
		return fmt.Errorf("project is not valid")
	}

	gen := d.generator(func() *catalog.Index { return idx })
	gen.OutDir, _ = cmd.Flags().GetString("out")
	gen.Unpack, _ = cmd.Flags().GetBool("unpack")

	result, err := gen.Generate(context.Background(), p, target)
	if err != nil {
		if errors.Is(err, github.ErrGitHubTokenNotFound) {
			c.printAuthorizeHint(cmd)
		}
		return fmt.Errorf("failed to generate project: %w", err)
	}

	if save {
		if err := project.SaveStored(d.Store, project.Apply(p, project.WithoutGitHub())); err != nil {
			return err
		}
	}

	return printNextSteps(cmd, result, p, idx.Map(p.Extensions).Mapped)
}

// printAuthorizeHint explains how to authorize a GitHub push when no token
// is available
func (c *GenerateCommand) printAuthorizeHint(cmd *cobra.Command) {
	w := cmd.ErrOrStderr()
	if c.deps.Exchanger == nil {
		fmt.Fprintln(w, "Set GH_TOKEN or GITHUB_TOKEN to push to GitHub.")
		return
	}

	state, err := github.NewState()
	if err != nil {
		c.deps.Log.Warn("failed to create oauth state", "error", err)
		return
	}
	fmt.Fprintln(w, "Set GH_TOKEN or GITHUB_TOKEN, or authorize codestart at:")
	fmt.Fprintf(w, "  %s\n", c.deps.Exchanger.AuthorizeURL(state))
	fmt.Fprintf(w, "then rerun with --from-url carrying github=true&code=<code>&state=%s\n", state)
}
