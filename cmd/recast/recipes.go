package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"recast/internal/rewrite"
)

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "List registered recipes",
	Args:  cobra.NoArgs,
	RunE:  runRecipes,
}

func init() {
	recipesCmd.Flags().String("tag", "", "only recipes carrying this tag (case-insensitive)")
	recipesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type recipePayload struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func runRecipes(cmd *cobra.Command, _ []string) error {
	tag, err := cmd.Flags().GetString("tag")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	registry, err := newRegistry()
	if err != nil {
		return err
	}
	recipes := registry.All()
	if tag != "" {
		recipes = registry.WithTag(tag)
	}

	switch strings.ToLower(format) {
	case "json":
		return renderRecipesJSON(cmd.OutOrStdout(), recipes)
	case "pretty":
		renderRecipesPretty(cmd.OutOrStdout(), recipes, useColor)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func renderRecipesJSON(out io.Writer, recipes []rewrite.Recipe) error {
	payload := make([]recipePayload, 0, len(recipes))
	for _, rec := range recipes {
		payload = append(payload, recipePayload{
			Name:        rec.Name(),
			DisplayName: rec.DisplayName(),
			Description: rec.Description(),
			Tags:        rec.Tags(),
		})
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func renderRecipesPretty(out io.Writer, recipes []rewrite.Recipe, colored bool) {
	if len(recipes) == 0 {
		fmt.Fprintln(out, "no recipes")
		return
	}
	nameStyle := lipgloss.NewStyle()
	tagStyle := lipgloss.NewStyle()
	descStyle := lipgloss.NewStyle().PaddingLeft(2).Width(72)
	if colored {
		nameStyle = nameStyle.Bold(true).Foreground(lipgloss.Color("39"))
		tagStyle = tagStyle.Foreground(lipgloss.Color("243"))
	}
	for i, rec := range recipes {
		if i > 0 {
			fmt.Fprintln(out)
		}
		header := nameStyle.Render(rec.Name())
		if tags := rec.Tags(); len(tags) > 0 {
			header += " " + tagStyle.Render("["+strings.Join(tags, ", ")+"]")
		}
		fmt.Fprintln(out, header)
		fmt.Fprintln(out, descStyle.Render(rec.DisplayName()+": "+rec.Description()))
	}
}
