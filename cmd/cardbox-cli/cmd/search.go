package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cardbox/internal/domain"
)

var (
	searchRoot  string
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search headings, file names, and authors",
	Long: `Search the index by keyword. Matching is prefix-based per token and
ranked by relevance.

Examples:
  cardbox-cli search warming
  cardbox-cli search "politics da" --root ~/Documents/cards`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hits, err := GetIndex().Search(args[0], searchRoot, searchLimit)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			fmt.Println("No results found")
			return nil
		}

		for _, h := range hits {
			switch h.Kind {
			case domain.HitKindHeading:
				fmt.Printf("[heading] %s  (%s:%d)\n", h.HeadingText, h.RelativePath, h.HeadingOrder)
			case domain.HitKindAuthor:
				fmt.Printf("[author]  %s  (%s)\n", h.HeadingText, h.RelativePath)
			default:
				fmt.Printf("[file]    %s\n", h.RelativePath)
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchRoot, "root", "r", "", "root path to scope the search to")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 50, "maximum number of hits")
	rootCmd.AddCommand(searchCmd)
}
