package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cardbox/internal/adapters/sqlite"
	"cardbox/internal/config"
	"cardbox/internal/ports"
)

var (
	dbPath string
	index  ports.CardIndex
)

var rootCmd = &cobra.Command{
	Use:   "cardbox-cli",
	Short: "CLI for indexing and searching card files",
	Long: `cardbox-cli is a command-line interface for the cardbox index of
markdown card files.

It provides commands to manage roots, reindex, search, preview files,
and capture content into capture documents.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		path := dbPath
		if path == "" {
			var err error
			path, err = config.DatabasePath()
			if err != nil {
				return err
			}
		}
		idx, err := sqlite.Open(path)
		if err != nil {
			return err
		}
		index = idx
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if index != nil {
			return index.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the index database (defaults to the XDG data dir)")
}

// GetIndex returns the initialized index
func GetIndex() ports.CardIndex {
	return index
}
