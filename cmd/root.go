package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verboseFlag bool

// rootCmd defines the base command for the gitodb CLI.
// All subcommands (init, hash-object, commit, etc.) register under this root.
// Uses cobra for command parsing, flag handling, and help generation.
var rootCmd = &cobra.Command{
	Use:   "gitodb",
	Short: "A content-addressable object store in the Git format",
	Long: `gitodb is a content-addressable object store developed in GO. It snapshots directories
	into blob, tree and commit objects that are byte-compatible with Git loose objects.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verboseFlag {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command and handles exit codes.
// Called from main.go to start CLI execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
