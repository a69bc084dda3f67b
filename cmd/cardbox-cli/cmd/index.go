package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cardbox/internal/domain"
)

var indexVerbose bool

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Reindex one root or all roots",
	Long: `Incrementally reindex card files. Files whose modification time and
size are unchanged are skipped.

Examples:
  cardbox-cli index
  cardbox-cli index ~/Documents/cards --verbose`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var progress func(domain.IndexProgress)
		if indexVerbose {
			progress = func(p domain.IndexProgress) {
				if p.Phase == domain.PhaseIndexing && p.CurrentFile != "" {
					fmt.Printf("  %s\n", p.CurrentFile)
				}
			}
		}

		if len(args) == 1 {
			stats, err := GetIndex().IndexRoot(args[0], progress)
			if err != nil {
				return err
			}
			printStats(stats)
			return nil
		}

		stats, failed, err := GetIndex().IndexAll(progress)
		if err != nil {
			return err
		}
		printStats(stats)
		if failed > 0 {
			fmt.Printf("%d roots failed\n", failed)
		}
		return nil
	},
}

func printStats(stats *domain.IndexStats) {
	fmt.Printf("%d scanned, %d updated, %d skipped, %d removed, %d headings in %dms\n",
		stats.Scanned, stats.Updated, stats.Skipped, stats.Removed,
		stats.HeadingsExtracted, stats.ElapsedMs)
}

func init() {
	indexCmd.Flags().BoolVarP(&indexVerbose, "verbose", "V", false, "print each reindexed file")
	rootCmd.AddCommand(indexCmd)
}
