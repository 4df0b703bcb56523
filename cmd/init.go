package cmd

import (
	"fmt"

	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/internal/repository"
	"github.com/KostasZigo/gitodb/utils"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a new gitodb repository",
	Long: `The 'init' command sets up a new gitodb repository in the current directory.
It creates a .gitodb directory with an empty object store and a HEAD pointing to the main branch.
If a repository already exists, the command will not overwrite existing data.`,
	SilenceUsage: true,
	Args:         maximumArgs(1),
	RunE:         runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// runInit executes repository initialization at specified or current directory.
func runInit(cmd *cobra.Command, args []string) error {
	dirPath := "."
	if len(args) > 0 {
		dirPath = args[0]
	}

	if err := repository.InitRepository(dirPath); err != nil {
		return fmt.Errorf("failed to initialize repository - %w", err)
	}

	cmd.Printf("Initialized empty gitodb repository in %s\n", utils.BuildDirPath(dirPath, constants.MetaDir))
	return nil
}
