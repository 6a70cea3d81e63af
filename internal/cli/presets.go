package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jakoblorz/go-codestart/internal/catalog"
	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/jakoblorz/go-codestart/internal/presets"
	"github.com/spf13/cobra"
)

// PresetsCommand lists and edits presets
type PresetsCommand struct {
	deps *Deps
}

// NewPresetsCommand creates the presets command and its subcommands
func NewPresetsCommand(deps *Deps) *cobra.Command {
	cmd := &PresetsCommand{deps: deps}

	cobraCmd := &cobra.Command{
		Use:   "presets",
		Short: "List service and local presets",
		Long: `List the presets offered by the service and the local presets read from
~/.config/codestart/presets/*.md. A local preset with the key of a service
preset replaces it.`,
		RunE: cmd.List,
	}
	cobraCmd.Flags().Bool("json", false, "Output as JSON")
	cobraCmd.Flags().String(streamFlag, "", "Platform stream (recommended stream when empty)")

	saveCmd := &cobra.Command{
		Use:   "save <title>",
		Short: "Save a local preset",
		Args:  cobra.ExactArgs(1),
		RunE:  cmd.Save,
	}
	saveCmd.Flags().StringSliceP(extensionFlag, "e", nil, "Extension id or shortcut (repeatable, comma separated)")
	saveCmd.Flags().String("icon", "", "Icon shown next to the title")
	saveCmd.Flags().String("description", "", "Description of the preset")
	_ = saveCmd.MarkFlagRequired(extensionFlag)

	deleteCmd := &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a local preset",
		Args:  cobra.ExactArgs(1),
		RunE:  cmd.Delete,
	}

	cobraCmd.AddCommand(saveCmd, deleteCmd)
	return cobraCmd
}

// List prints every preset resolved against the catalog
func (c *PresetsCommand) List(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	streamKey, _ := cmd.Flags().GetString(streamFlag)

	local, err := c.deps.Presets.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read local presets: %w", err)
	}

	platform, idx, err := fetchCatalog(context.Background(), c.deps.API, streamKey, false)
	if err != nil {
		return fmt.Errorf("failed to load the extension catalog: %w", err)
	}

	resolved := presets.Resolve(presets.Merge(platform.Presets, local), idx)
	if asJSON {
		return printJSON(cmd, resolved)
	}

	w := cmd.OutOrStdout()
	if len(resolved) == 0 {
		fmt.Fprintln(w, "No presets available")
		return nil
	}

	for _, r := range resolved {
		title := r.Title
		if r.Icon != "" {
			title = r.Icon + " " + title
		}
		source := "service"
		if r.Local {
			source = "local"
		}
		fmt.Fprintf(w, "%s [%s] (%s)\n", title, r.Key, source)

		shortcuts := make([]string, 0, len(r.Mapping.Mapped))
		for _, ext := range r.Mapping.Mapped {
			shortcuts = append(shortcuts, catalog.Shortcut(ext.ID))
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(shortcuts, ", "))
		if len(r.Mapping.Missing) > 0 {
			fmt.Fprintf(w, "  ⚠️  not in this catalog: %s\n", strings.Join(r.Mapping.Missing, ", "))
		}
	}
	return nil
}

// Save writes a local preset
func (c *PresetsCommand) Save(cmd *cobra.Command, args []string) error {
	extensions, _ := cmd.Flags().GetStringSlice(extensionFlag)
	icon, _ := cmd.Flags().GetString("icon")
	description, _ := cmd.Flags().GetString("description")

	preset, err := c.deps.Presets.Write(models.Preset{
		Title:       args[0],
		Icon:        icon,
		Description: description,
		Extensions:  extensions,
	})
	if err != nil {
		return fmt.Errorf("failed to save preset: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved preset %s (%d extensions)\n", preset.Key, len(preset.Extensions))
	return nil
}

// Delete removes a local preset
func (c *PresetsCommand) Delete(cmd *cobra.Command, args []string) error {
	if err := c.deps.Presets.Delete(args[0]); err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted preset %s\n", args[0])
	return nil
}
