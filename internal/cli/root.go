package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand assembles the sortnorris command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sortnorris",
		Short: "Sort a directory's files into category folders",
		Long: `sortnorris tidies a directory by moving its top-level files into
Documents, Images, Music and Videos subfolders based on file extension.
Moves run in parallel and every copy is verified before the original
is removed.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(NewSortCommand())
	rootCmd.AddCommand(NewCategoriesCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
