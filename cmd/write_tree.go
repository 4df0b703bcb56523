package cmd

import (
	"fmt"

	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/internal/objects"
	"github.com/spf13/cobra"
)

var writeTreeCmd = &cobra.Command{
	Use:   "write-tree",
	Short: "Snapshot the working directory into tree objects",
	Long: `Store every file below the repository root as a blob and every directory as a tree,
then print the hash of the root tree. The .gitodb and target directories are never
included; --skip names further entries to leave out at every depth.`,
	SilenceUsage: true,
	Args:         maximumArgs(0),
	RunE:         runWriteTree,
}

var skipFlag []string

func init() {
	rootCmd.AddCommand(writeTreeCmd)

	writeTreeCmd.Flags().StringSliceVar(&skipFlag, "skip", nil, "Additional entry names to leave out of the snapshot")
}

func runWriteTree(cmd *cobra.Command, args []string) error {
	repoPath, store, err := openStore()
	if err != nil {
		return err
	}

	hash, err := snapshotTree(store, repoPath)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}

// snapshotTree writes repoPath into store honoring the default and --skip names.
func snapshotTree(store *objects.ObjectStore, repoPath string) (string, error) {
	skipNames := append(append([]string{}, constants.DefaultSkipNames...), skipFlag...)

	hash, err := objects.NewTreeBuilder(store, skipNames...).Build(repoPath)
	if err != nil {
		return "", fmt.Errorf("failed to write tree: %w", err)
	}
	return hash, nil
}
