package cli

import (
	"fmt"

	"github.com/jakoblorz/go-codestart/internal/project"
	"github.com/spf13/cobra"
)

// ResetCommand forgets the remembered project
type ResetCommand struct {
	deps *Deps
}

// NewResetCommand creates the reset command
func NewResetCommand(deps *Deps) *cobra.Command {
	cmd := &ResetCommand{deps: deps}

	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the project remembered by the last session",
		RunE:  cmd.Run,
	}
}

// Run executes the reset command
func (c *ResetCommand) Run(cmd *cobra.Command, args []string) error {
	if _, err := project.Reset(c.deps.Store); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Project reset to defaults")
	return nil
}
