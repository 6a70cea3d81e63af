package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jakoblorz/go-codestart/internal/generator"
	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/spf13/cobra"
)

func printNextSteps(cmd *cobra.Command, result *generator.Result, p *models.ProjectDefinition, extensions []models.Extension) error {
	text, err := generator.NextSteps(result, p, extensions)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "✓ Project generated")
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprint(out, text)
	if len(result.Files) > 0 {
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprint(out, generator.RenderTree(p.ArtifactID, result.Files))
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
