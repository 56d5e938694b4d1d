package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/landscape-community/landscape-mcp/internal/app"
	"github.com/landscape-community/landscape-mcp/internal/inventory"
	"github.com/landscape-community/landscape-mcp/pkg/printer"
)

const tagWrapWidth = 76

var (
	tagFilters filterFlags
	tagsOutput string
)

var TagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Show tags grouped into locations, teams and other",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		view, err := fetchView(cmd.Context(), &tagFilters)
		if err != nil {
			return err
		}
		categories := app.NewCategorizer(cfg).Categorize(inventory.DistinctTags(view.Machines))
		breakdown := inventory.TagBreakdown(categories, view.Machines)

		if structured(tagsOutput) {
			p, err := newPrinter(cmd, tagsOutput)
			if err != nil {
				return err
			}
			return p.Print(breakdown, nil)
		}

		out := cmd.OutOrStdout()
		for _, cat := range breakdown {
			if len(cat.Tags) == 0 {
				continue
			}
			entries := make([]string, 0, len(cat.Tags))
			for _, share := range cat.Tags {
				entries = append(entries, fmt.Sprintf("%s (%d)", share.Tag, share.Count))
			}
			fmt.Fprintf(out, "%s:\n%s\n", cat.Name, printer.Wrap(strings.Join(entries, ", "), tagWrapWidth, 2))
		}
		return nil
	},
}

func init() {
	tagFilters.register(TagsCmd)
	TagsCmd.Flags().StringVarP(&tagsOutput, "output", "o", "table", "Output format (table, json, yaml)")
}
