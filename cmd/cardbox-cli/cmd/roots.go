package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var rootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "Manage indexed card roots",
	Long: `Manage the folders registered as card roots.

Examples:
  cardbox-cli roots list
  cardbox-cli roots add ~/Documents/cards
  cardbox-cli roots remove ~/Documents/cards`,
}

var rootsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered roots",
	RunE: func(cmd *cobra.Command, args []string) error {
		roots, err := GetIndex().ListRoots()
		if err != nil {
			return err
		}
		if len(roots) == 0 {
			fmt.Println("No roots registered")
			return nil
		}
		for _, r := range roots {
			indexed := "never indexed"
			if r.LastIndexedMs > 0 {
				indexed = time.UnixMilli(r.LastIndexedMs).Format("2006-01-02 15:04")
			}
			fmt.Printf("%s  %d files, %d headings, %s\n",
				r.Path, r.FileCount, r.HeadingCount, indexed)
		}
		return nil
	},
}

var rootsAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Register a folder as a card root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		canonical, err := GetIndex().AddRoot(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Added %s\n", canonical)
		return nil
	},
}

var rootsRemoveCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Remove a root and everything indexed beneath it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := GetIndex().RemoveRoot(args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rootsCmd)
	rootsCmd.AddCommand(rootsListCmd)
	rootsCmd.AddCommand(rootsAddCmd)
	rootsCmd.AddCommand(rootsRemoveCmd)
}
