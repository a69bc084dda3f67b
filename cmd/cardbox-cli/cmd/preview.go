package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <file-id> [heading-order]",
	Short: "Show a card file's outline or one heading's section",
	Long: `Show the heading outline of a card file by its id, or the full text
of one section when a heading order is given.

File ids come from search results and the outline command.

Examples:
  cardbox-cli preview 42
  cardbox-cli preview 42 17`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid file id %q", args[0])
		}

		if len(args) == 2 {
			order, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid heading order %q", args[1])
			}
			text, err := GetIndex().HeadingPreview(fileID, order)
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		}

		pv, err := GetIndex().FilePreview(fileID)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%d headings)\n", pv.RelativePath, pv.HeadingCount)
		for _, h := range pv.Headings {
			fmt.Printf("%s%d: %s\n", strings.Repeat("  ", int(h.Level)), h.Order, h.Text)
		}
		for _, b := range pv.CiteBlocks {
			fmt.Printf("  [%s] %s\n", b.StyleLabel, b.Text)
		}
		return nil
	},
}

var outlineCmd = &cobra.Command{
	Use:   "outline <root>",
	Short: "Show the indexed folder tree of a root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := GetIndex().Snapshot(args[0])
		if err != nil {
			return err
		}
		for _, folder := range snap.Folders {
			indent := strings.Repeat("  ", folder.Depth)
			fmt.Printf("%s%s/ (%d files)\n", indent, folder.Name, folder.FileCount)
			for _, file := range snap.Files {
				if file.FolderPath != folder.Path {
					continue
				}
				fmt.Printf("%s  [%d] %s\n", indent, file.ID, file.FileName)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(outlineCmd)
}
