package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jakoblorz/go-codestart/internal/api"
	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/spf13/cobra"
)

// StreamsCommand lists the platform streams
type StreamsCommand struct {
	deps *Deps
}

// NewStreamsCommand creates the streams command
func NewStreamsCommand(deps *Deps) *cobra.Command {
	cmd := &StreamsCommand{deps: deps}

	cobraCmd := &cobra.Command{
		Use:   "streams",
		Short: "List the available platform streams",
		RunE:  cmd.Run,
	}

	cobraCmd.Flags().Bool("json", false, "Output as JSON")

	return cobraCmd
}

// Run executes the streams command
func (c *StreamsCommand) Run(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	platform, _, err := fetchCatalog(context.Background(), c.deps.API, "", false)
	if err != nil {
		return fmt.Errorf("failed to load the stream list: %w", err)
	}

	streams := append([]models.Stream(nil), platform.Streams...)
	api.SortStreams(streams)

	if asJSON {
		return printJSON(cmd, streams)
	}

	w := cmd.OutOrStdout()
	if len(streams) == 0 {
		fmt.Fprintln(w, "No streams available")
		return nil
	}

	for _, s := range streams {
		var notes []string
		if s.Recommended {
			notes = append(notes, "recommended")
		}
		if s.LTS {
			notes = append(notes, "LTS")
		}
		if s.Status != "" && s.Status != "FINAL" {
			notes = append(notes, strings.ToLower(s.Status))
		}
		if len(s.JavaCompatibility.Versions) > 0 {
			versions := make([]string, len(s.JavaCompatibility.Versions))
			for i, v := range s.JavaCompatibility.Versions {
				versions[i] = strconv.Itoa(v)
			}
			notes = append(notes, "java "+strings.Join(versions, "/"))
		}

		marker := " "
		if s.Recommended {
			marker = "*"
		}
		line := fmt.Sprintf("%s %-8s %s", marker, api.StreamID(s.Key), s.PlatformVersion)
		if len(notes) > 0 {
			line += " (" + strings.Join(notes, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
