package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cardbox/internal/adapters/editor"
	"cardbox/internal/ports"
)

var opener ports.Opener = editor.NewOpener()

var openCmd = &cobra.Command{
	Use:   "open <file-id> [heading-order]",
	Short: "Open a card file in $EDITOR, optionally at a heading",
	Long: `Open a card file in the user's editor. With a heading order the editor
jumps to that heading's line when it supports line positioning.

Examples:
  cardbox-cli open 42
  cardbox-cli open 42 17`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid file id %q", args[0])
		}

		pv, err := GetIndex().FilePreview(fileID)
		if err != nil {
			return err
		}

		if len(args) == 2 {
			order, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid heading order %q", args[1])
			}
			return opener.OpenAt(pv.AbsolutePath, order)
		}
		return opener.Open(pv.AbsolutePath)
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
