package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lsTreeCmd = &cobra.Command{
	Use:   "ls-tree [--name-only] <tree>",
	Short: "List the entries of a tree object",
	Long: `List the entries of a stored tree object in canonical order, one per line,
formatted as "<mode> <kind> <hash>\t<name>".`,
	SilenceUsage: true,
	Args:         exactArgs(1, "tree"),
	RunE:         runLsTree,
}

var nameOnlyFlag bool

func init() {
	rootCmd.AddCommand(lsTreeCmd)

	lsTreeCmd.Flags().BoolVar(&nameOnlyFlag, "name-only", false, "List only entry names")
}

func runLsTree(cmd *cobra.Command, args []string) error {
	_, store, err := openStore()
	if err != nil {
		return err
	}

	tree, err := store.ReadTree(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, entry := range tree.Entries() {
		if nameOnlyFlag {
			fmt.Fprintln(out, entry.Name())
		} else {
			fmt.Fprintln(out, entry.String())
		}
	}
	return nil
}
