package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KostasZigo/gitodb/internal/repository"
	"github.com/spf13/cobra"
)

var commitCmd = &cobra.Command{
	Use:   "commit -m <message>",
	Short: "Snapshot the working directory and advance the current branch",
	Long: `Write the working directory as a tree, commit it on top of the commit HEAD points to
(if any) and move the current branch to the new commit.`,
	SilenceUsage: true,
	Args:         maximumArgs(0),
	RunE:         runCommit,
}

var (
	commitMessage string
	commitAuthor  authorFlags
)

func init() {
	rootCmd.AddCommand(commitCmd)

	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit message")
	commitCmd.MarkFlagRequired("message")
	commitAuthor.register(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	repoPath, store, err := openStore()
	if err != nil {
		return err
	}

	parent, err := repository.ResolveHead(repoPath)
	if errors.Is(err, repository.ErrNoCommits) {
		parent = ""
	} else if err != nil {
		return err
	}

	treeHash, err := snapshotTree(store, repoPath)
	if err != nil {
		return err
	}

	hash, err := storeCommit(store, treeHash, parent, commitMessage, commitAuthor.resolve())
	if err != nil {
		return err
	}

	if err := repository.UpdateHead(repoPath, hash); err != nil {
		return err
	}

	subject, _, _ := strings.Cut(commitMessage, "\n")
	fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", hash, subject)
	return nil
}
