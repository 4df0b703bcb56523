package cmd

import (
	"fmt"

	"github.com/KostasZigo/gitodb/internal/objects"
	"github.com/spf13/cobra"
)

var commitTreeCmd = &cobra.Command{
	Use:   "commit-tree <tree> [-p <parent>] -m <message>",
	Short: "Create a commit object for a tree",
	Long: `Create a commit object recording the given tree, an optional parent commit and a message,
store it and print its hash. HEAD is not moved.

The author identity is taken from --author-name/--author-email, then from the
GITODB_AUTHOR_NAME/GITODB_AUTHOR_EMAIL environment variables.`,
	SilenceUsage: true,
	Args:         exactArgs(1, "tree"),
	RunE:         runCommitTree,
}

var (
	commitTreeParent  string
	commitTreeMessage string
	commitTreeAuthor  authorFlags
)

func init() {
	rootCmd.AddCommand(commitTreeCmd)

	commitTreeCmd.Flags().StringVarP(&commitTreeParent, "parent", "p", "", "Parent commit hash")
	commitTreeCmd.Flags().StringVarP(&commitTreeMessage, "message", "m", "", "Commit message")
	commitTreeCmd.MarkFlagRequired("message")
	commitTreeAuthor.register(commitTreeCmd)
}

func runCommitTree(cmd *cobra.Command, args []string) error {
	_, store, err := openStore()
	if err != nil {
		return err
	}

	hash, err := storeCommit(store, args[0], commitTreeParent, commitTreeMessage, commitTreeAuthor.resolve())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}

// storeCommit checks that treeHash names a tree and parentHash (if any) a commit,
// then encodes and stores the commit.
func storeCommit(store *objects.ObjectStore, treeHash, parentHash, message string, author objects.Author) (string, error) {
	if _, err := store.ReadTree(treeHash); err != nil {
		return "", fmt.Errorf("invalid tree %s: %w", treeHash, err)
	}
	if parentHash != "" {
		if _, err := store.ReadCommit(parentHash); err != nil {
			return "", fmt.Errorf("invalid parent %s: %w", parentHash, err)
		}
	}

	obj, err := objects.EncodeCommit(treeHash, parentHash, author, message)
	if err != nil {
		return "", err
	}

	hash, err := store.Store(obj)
	if err != nil {
		return "", fmt.Errorf("failed to store commit: %w", err)
	}
	return hash, nil
}
