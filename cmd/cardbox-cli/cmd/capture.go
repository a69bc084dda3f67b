package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cardbox/internal/adapters/markdown"
	"cardbox/internal/ports"
)

var (
	captureTarget  string
	captureTitle   string
	captureSource  string
	captureContext int64
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Manage capture documents",
	Long: `Insert, delete, and move sections within capture documents, and list
candidate destinations.

Sections are addressed by heading order: the 0-based line index of the
heading, as printed by preview and targets show.`,
}

var captureTargetsCmd = &cobra.Command{
	Use:   "targets <root>",
	Short: "List capture destinations under a root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		targets, err := markdown.NewCaptureEngine().ListTargets(args[0])
		if err != nil {
			return err
		}
		for _, t := range targets {
			state := "missing"
			if t.Exists {
				state = fmt.Sprintf("%d entries", t.EntryCount)
			}
			fmt.Printf("%s  (%s)\n", t.RelativePath, state)
		}
		return nil
	},
}

var captureShowCmd = &cobra.Command{
	Use:   "show <root> <target>",
	Short: "Show a capture document's outline",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pv, err := markdown.NewCaptureEngine().TargetPreview(args[0], args[1])
		if err != nil {
			return err
		}
		if !pv.Exists {
			fmt.Printf("%s does not exist yet\n", pv.RelativePath)
			return nil
		}
		for _, h := range pv.Headings {
			fmt.Printf("%d: %s\n", h.Order, h.Text)
		}
		return nil
	},
}

var captureInsertCmd = &cobra.Command{
	Use:   "insert <root> <content>",
	Short: "Insert content into a capture document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := markdown.NewCaptureEngine().Insert(ports.CaptureRequest{
			RootPath:     args[0],
			Content:      args[1],
			SectionTitle: captureTitle,
			SourcePath:   captureSource,
			TargetPath:   captureTarget,
			ContextOrder: captureContext,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Inserted into %s\n", result.TargetRelativePath)
		return nil
	},
}

var captureDeleteCmd = &cobra.Command{
	Use:   "delete <root> <target> <heading-order>",
	Short: "Delete a heading and its subtree",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid heading order %q", args[2])
		}
		pv, err := markdown.NewCaptureEngine().DeleteHeading(args[0], args[1], order)
		if err != nil {
			return err
		}
		fmt.Printf("%s now has %d headings\n", pv.RelativePath, pv.HeadingCount)
		return nil
	},
}

var captureMoveCmd = &cobra.Command{
	Use:   "move <root> <target> <source-order> <destination-order>",
	Short: "Move a heading's subtree after another heading",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid source order %q", args[2])
		}
		dst, err := strconv.ParseInt(args[3], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid destination order %q", args[3])
		}
		pv, err := markdown.NewCaptureEngine().MoveHeading(args[0], args[1], src, dst)
		if err != nil {
			return err
		}
		fmt.Printf("%s now has %d headings\n", pv.RelativePath, pv.HeadingCount)
		return nil
	},
}

func init() {
	captureInsertCmd.Flags().StringVarP(&captureTarget, "target", "t", "", "capture document path relative to the root")
	captureInsertCmd.Flags().StringVar(&captureTitle, "title", "Captured", "section title for the inserted content")
	captureInsertCmd.Flags().StringVar(&captureSource, "source", "", "source card path to credit")
	captureInsertCmd.Flags().Int64Var(&captureContext, "context", -1, "heading order to nest the section under (negative appends at the end)")

	rootCmd.AddCommand(captureCmd)
	captureCmd.AddCommand(captureTargetsCmd)
	captureCmd.AddCommand(captureShowCmd)
	captureCmd.AddCommand(captureInsertCmd)
	captureCmd.AddCommand(captureDeleteCmd)
	captureCmd.AddCommand(captureMoveCmd)
}
