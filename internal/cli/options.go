package cli

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jakoblorz/go-codestart/internal/api"
	"github.com/jakoblorz/go-codestart/internal/catalog"
	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/jakoblorz/go-codestart/internal/project"
	"github.com/spf13/cobra"
)

const (
	fromURLFlag      = "from-url"
	groupIDFlag      = "group-id"
	artifactIDFlag   = "artifact-id"
	versionFlag      = "project-version"
	buildToolFlag    = "build-tool"
	javaFlag         = "java"
	noCodeFlag       = "no-code"
	extensionFlag    = "extension"
	streamFlag       = "stream"
	platformOnlyFlag = "platform-only"

	fetchTimeout = 30 * time.Second
)

// addProjectFlags registers the flags that describe a project
func addProjectFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String(fromURLFlag, "", "Start from a shared project URL or query string")
	flags.StringP(groupIDFlag, "g", "", "Group id, e.g. org.acme")
	flags.StringP(artifactIDFlag, "a", "", "Artifact id, e.g. code-with-quarkus")
	flags.String(versionFlag, "", "Project version, e.g. 1.0.0-SNAPSHOT")
	flags.StringP(buildToolFlag, "b", "", "Build tool (MAVEN, GRADLE, GRADLE_KOTLIN_DSL)")
	flags.String(javaFlag, "", "Java version, e.g. 21")
	flags.Bool(noCodeFlag, false, "Do not include starter code")
	flags.StringSliceP(extensionFlag, "e", nil, "Extension id or shortcut (repeatable, comma separated)")
	flags.String(streamFlag, "", "Platform stream, e.g. 3.8 (recommended stream when empty)")
	flags.Bool(platformOnlyFlag, false, "Only offer extensions of the platform")
}

// queryFromFlags returns the URL parameters given with --from-url
func queryFromFlags(cmd *cobra.Command) url.Values {
	raw, _ := cmd.Flags().GetString(fromURLFlag)
	if raw == "" {
		return nil
	}
	return project.ParseQuery(raw)
}

// projectFromFlags applies every changed project flag on top of base
func projectFromFlags(cmd *cobra.Command, base *models.ProjectDefinition) (*models.ProjectDefinition, error) {
	flags := cmd.Flags()
	var edits []project.Edit

	str := func(name string, edit func(string) project.Edit) {
		if flags.Changed(name) {
			v, _ := flags.GetString(name)
			edits = append(edits, edit(strings.TrimSpace(v)))
		}
	}
	str(groupIDFlag, project.WithGroupID)
	str(artifactIDFlag, project.WithArtifactID)
	str(versionFlag, project.WithVersion)
	str(javaFlag, func(v string) project.Edit { return project.WithJavaVersion(project.NormalizeJavaVersion(v)) })
	str(streamFlag, project.WithStream)

	if flags.Changed(buildToolFlag) {
		v, _ := flags.GetString(buildToolFlag)
		bt, err := models.ParseBuildTool(v)
		if err != nil {
			return nil, err
		}
		edits = append(edits, project.WithBuildTool(bt))
	}
	if flags.Changed(noCodeFlag) {
		v, _ := flags.GetBool(noCodeFlag)
		edits = append(edits, project.WithNoCode(v))
	}
	if flags.Changed(platformOnlyFlag) {
		v, _ := flags.GetBool(platformOnlyFlag)
		edits = append(edits, project.WithPlatformOnly(v))
	}
	if flags.Changed(extensionFlag) {
		ids, _ := flags.GetStringSlice(extensionFlag)
		edits = append(edits, project.WithExtensions(ids...))
	}

	return project.Apply(base, edits...), nil
}

// fetchCatalog loads the platform of a stream and indexes its extensions
func fetchCatalog(ctx context.Context, client api.Client, streamKey string, platformOnly bool) (*models.Platform, *catalog.Index, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	platform, err := client.FetchPlatform(ctx, streamKey, platformOnly)
	if err != nil {
		return nil, nil, err
	}
	return platform, catalog.NewIndex(platform.Extensions), nil
}

// mapProjectExtensions replaces the requested extensions of p with catalog
// ids. Unknown extensions are an error here since nothing can fix them
// later.
func mapProjectExtensions(p *models.ProjectDefinition, idx *catalog.Index) (*models.ProjectDefinition, error) {
	result := idx.Map(p.Extensions)
	if result.HasMissing() {
		parts := make([]string, 0, len(result.Missing))
		for _, id := range result.Missing {
			part := id
			var similar []string
			for _, ext := range idx.Suggest(id, 3) {
				similar = append(similar, catalog.Shortcut(ext.ID))
			}
			if len(similar) > 0 {
				part += " (did you mean " + strings.Join(similar, ", ") + "?)"
			}
			parts = append(parts, part)
		}
		return nil, fmt.Errorf("unknown extensions: %s", strings.Join(parts, "; "))
	}
	return project.Apply(p, project.WithExtensions(result.IDs()...)), nil
}
