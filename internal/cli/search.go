package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jakoblorz/go-codestart/internal/catalog"
	"github.com/jakoblorz/go-codestart/internal/models"
	"github.com/jakoblorz/go-codestart/internal/search"
	"github.com/jakoblorz/go-codestart/internal/tui"
	"github.com/spf13/cobra"
)

// SearchCommand searches the extension catalog
type SearchCommand struct {
	deps *Deps
}

// SearchOutput is the --json form of a search
type SearchOutput struct {
	Query   string         `json:"query"`
	Clauses []string       `json:"clauses"`
	Results []SearchResult `json:"results"`
	Facets  []search.Facet `json:"facets,omitempty"`
}

// SearchResult is one matching extension
type SearchResult struct {
	Shortcut string `json:"shortcut"`
	models.Extension
}

// NewSearchCommand creates the search command
func NewSearchCommand(deps *Deps) *cobra.Command {
	cmd := &SearchCommand{deps: deps}

	cobraCmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search the extension catalog",
		Long: `Search the extension catalog with the picker's query language.

  rest                      extensions matching a word
  category:web              one field value; -field:value excludes
  tag:preview,experimental  any of several values
  jdbc in name,description  words within given fields
  with:*                    entries carrying any value for a field`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().Bool("strict", false, "Fail on query syntax errors instead of searching leniently")
	cobraCmd.Flags().Bool("facets", false, "Print the facets of the catalog for the query")
	cobraCmd.Flags().StringArray("facet", nil, "Add a facet filter, e.g. --facet category=Web (repeatable)")
	cobraCmd.Flags().Bool("json", false, "Output as JSON")
	cobraCmd.Flags().String(streamFlag, "", "Platform stream to search (recommended stream when empty)")
	cobraCmd.Flags().Bool(platformOnlyFlag, false, "Only search extensions of the platform")

	return cobraCmd
}

// Run executes the search command
func (c *SearchCommand) Run(cmd *cobra.Command, args []string) error {
	strict, _ := cmd.Flags().GetBool("strict")
	showFacets, _ := cmd.Flags().GetBool("facets")
	facetFilters, _ := cmd.Flags().GetStringArray("facet")
	asJSON, _ := cmd.Flags().GetBool("json")
	streamKey, _ := cmd.Flags().GetString(streamFlag)
	platformOnly, _ := cmd.Flags().GetBool(platformOnlyFlag)

	query := strings.Join(args, " ")
	for _, f := range facetFilters {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" || value == "" {
			return fmt.Errorf("invalid facet %q: expected key=value", f)
		}
		query = search.AddFacetValue(query, strings.ToLower(key), value)
	}

	_, idx, err := fetchCatalog(context.Background(), c.deps.API, streamKey, platformOnly)
	if err != nil {
		return fmt.Errorf("failed to load the extension catalog: %w", err)
	}

	var clauses []search.Clause
	if strict {
		clauses, err = search.ParseStrictWithFields(query, idx.Fields())
		if err != nil {
			return fmt.Errorf("invalid query: %w", err)
		}
	} else {
		clauses = search.ParseWithFields(query, idx.Fields())
	}

	c.deps.Log.Debug("searching catalog", "query", query, "clauses", len(clauses))
	results := search.Search(clauses, idx)

	var facets []search.Facet
	if showFacets {
		facets = search.Facets(clauses, idx)
	}

	if asJSON {
		out := SearchOutput{
			Query:   query,
			Clauses: make([]string, 0, len(clauses)),
			Results: make([]SearchResult, 0, len(results)),
			Facets:  facets,
		}
		for _, cl := range clauses {
			out.Clauses = append(out.Clauses, cl.String())
		}
		for _, ext := range results {
			out.Results = append(out.Results, SearchResult{Shortcut: catalog.Shortcut(ext.ID), Extension: ext})
		}
		return printJSON(cmd, out)
	}

	w := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintf(w, "No extension matches %q\n", query)
	} else {
		fmt.Fprintf(w, "%d extension(s):\n", len(results))
		for _, ext := range results {
			line := fmt.Sprintf("  %-28s %s", catalog.Shortcut(ext.ID), ext.Name)
			if ext.Category != "" {
				line += " " + tui.SubtleStyle.Render("("+ext.Category+")")
			}
			fmt.Fprintln(w, line)
		}
	}

	if showFacets {
		fmt.Fprintln(w)
		fmt.Fprint(w, renderFacets(facets))
	}
	return nil
}

func renderFacets(facets []search.Facet) string {
	var b strings.Builder
	for _, f := range facets {
		if len(f.Values) == 0 {
			continue
		}
		label := f.Key
		switch {
		case f.Any:
			label += " (any)"
		case f.Excluded:
			label += " (none)"
		}

		values := make([]string, 0, len(f.Values))
		for _, v := range f.Values {
			item := fmt.Sprintf("%s (%d)", v.Value, v.Count)
			if v.Active {
				item = "[" + item + "]"
			}
			values = append(values, item)
		}
		fmt.Fprintf(&b, "%s: %s\n", label, strings.Join(values, ", "))
	}
	return b.String()
}
