package cli

import (
	"context"
	"fmt"

	"github.com/jakoblorz/go-codestart/internal/catalog"
	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/jakoblorz/go-codestart/internal/project"
	"github.com/spf13/cobra"
)

// URLCommand prints the shareable URL of a project
type URLCommand struct {
	deps *Deps
}

// NewURLCommand creates the url command
func NewURLCommand(deps *Deps) *cobra.Command {
	cmd := &URLCommand{deps: deps}

	cobraCmd := &cobra.Command{
		Use:   "url",
		Short: "Print the shareable URL of a project",
		Long: `Print the shareable URL of the project described by the flags, on top of
--from-url when given or the defaults otherwise. Extension ids are written
as shortcuts when the catalog can resolve them back.`,
		RunE: cmd.Run,
	}

	addProjectFlags(cobraCmd)
	cobraCmd.Flags().Bool("download", false, "Print the download URL instead")

	return cobraCmd
}

// Run executes the url command
func (c *URLCommand) Run(cmd *cobra.Command, args []string) error {
	download, _ := cmd.Flags().GetBool("download")

	base := models.NewDefaultProject()
	if query := queryFromFlags(cmd); query != nil {
		base = project.FromQuery(query)
	}
	p, err := projectFromFlags(cmd, base)
	if err != nil {
		return err
	}

	var idx *catalog.Index
	if _, fetched, err := fetchCatalog(context.Background(), c.deps.API, p.StreamKey, p.PlatformOnly); err != nil {
		c.deps.Log.Warn("printing long extension ids, catalog unavailable", "error", err)
	} else {
		idx = fetched
	}

	clean := project.Apply(p, project.WithoutGitHub())
	if download {
		fmt.Fprintln(cmd.OutOrStdout(), c.deps.API.DownloadURL(project.ShareQuery(clean, idx)))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), project.URL(c.deps.Config.APIURL, clean, idx))
	return nil
}
