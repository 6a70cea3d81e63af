package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command
func NewRootCommand(deps *Deps) *cobra.Command {
	newCmd := NewNewCommand(deps)

	rootCmd := &cobra.Command{
		Use:   "codestart",
		Short: "Generate starter projects from the terminal",
		Long: `A terminal front end for generating starter projects.

Pick extensions interactively, then download the project, unpack it,
or push it to a new GitHub repository.`,
		SilenceUsage: true,
		Annotations:  map[string]string{interactiveAnnotation: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return deps.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			deps.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to `codestart new` when no subcommand is provided.
			return newCmd.RunE(cmd, args)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(configFlag, "", "Config file (default ~/.config/codestart/config.yaml)")
	flags.String(apiURLFlag, "", "Code generation service URL")
	flags.String(storeFlag, "", "Where the last project is remembered (file, sqlite, memory)")

	rootCmd.Flags().AddFlagSet(newCmd.Flags())

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(NewSearchCommand(deps))
	rootCmd.AddCommand(NewStreamsCommand(deps))
	rootCmd.AddCommand(NewPresetsCommand(deps))
	rootCmd.AddCommand(NewURLCommand(deps))
	rootCmd.AddCommand(NewGenerateCommand(deps))
	rootCmd.AddCommand(NewResetCommand(deps))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand(&Deps{})

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}
