// Package cmd holds the droply command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "droply",
		Short: "Droply cloud file storage backend",
		Long: `Droply stores files and folders per user, keeps deleted items in a trash
until they are restored or purged, and removes the stored blobs of purged files.

Running without a subcommand starts the HTTP server.`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "path to the YAML config file")

	rootCmd.AddCommand(newServeCmd(), newMigrateCmd(), newEmptyTrashCmd(), newRetryOrphansCmd())
	return rootCmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
