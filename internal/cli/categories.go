package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/sdejongh/sortnorris/pkg/classify"
	"github.com/sdejongh/sortnorris/pkg/models"
	"github.com/spf13/cobra"
)

// NewCategoriesCommand creates the categories command
func NewCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories [file...]",
		Short: "List categories or classify file names",
		Long: `Without arguments, print the extensions mapped to each category.
With file names, print the category each name would be sorted into.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			extensions, err := cfg.ExtensionTable()
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.SetStyle(table.StyleRounded)

			if len(args) == 0 {
				tw.AppendHeader(table.Row{"Category", "Extensions"})
				for _, category := range models.Categories() {
					tw.AppendRow(table.Row{category, strings.Join(extensions.Extensions(category), ", ")})
				}
				tw.Render()
				return nil
			}

			tw.AppendHeader(table.Row{"File", "Extension", "Category"})
			tw.SetColumnConfigs([]table.ColumnConfig{
				{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
			})
			for _, name := range args {
				category := "(left in place)"
				if c, ok := extensions.Classify(name); ok {
					category = string(c)
				}
				ext := classify.Extension(name)
				if ext == "" {
					ext = "-"
				}
				tw.AppendRow(table.Row{name, ext, category})
			}
			tw.Render()

			fmt.Fprintf(cmd.OutOrStdout(), "%d extensions known\n", extensions.Len())
			return nil
		},
	}
}
