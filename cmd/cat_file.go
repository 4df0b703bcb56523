package cmd

import (
	"fmt"
	"io"

	"github.com/KostasZigo/gitodb/internal/objects"
	"github.com/KostasZigo/gitodb/utils"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var catFileCmd = &cobra.Command{
	Use:   "cat-file (-p | -t | -s) <object>",
	Short: "Print the content, kind or size of a stored object",
	Long: `Read an object from the object store and print information about it.

Examples:
  # Pretty-print the content of an object
  gitodb cat-file -p 3b18e512dba79e4c8300dd08aeb37f8e728b8dad

  # Print the kind of an object (blob, tree or commit)
  gitodb cat-file -t 3b18e512dba79e4c8300dd08aeb37f8e728b8dad`,
	SilenceUsage: true,
	Args:         exactArgs(1, "object"),
	RunE:         runCatFile,
}

var (
	prettyPrintFlag bool
	showKindFlag    bool
	showSizeFlag    bool
)

func init() {
	rootCmd.AddCommand(catFileCmd)

	catFileCmd.Flags().BoolVarP(&prettyPrintFlag, "pretty", "p", false, "Pretty-print the object content")
	catFileCmd.Flags().BoolVarP(&showKindFlag, "type", "t", false, "Print the object kind")
	catFileCmd.Flags().BoolVarP(&showSizeFlag, "size", "s", false, "Print the object size in bytes")
	catFileCmd.MarkFlagsOneRequired("pretty", "type", "size")
	catFileCmd.MarkFlagsMutuallyExclusive("pretty", "type", "size")
}

// runCatFile reads the object named by args[0] and prints the requested view of it.
func runCatFile(cmd *cobra.Command, args []string) (retErr error) {
	_, store, err := openStore()
	if err != nil {
		return err
	}

	obj, err := store.ReadObject(args[0])
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&retErr, multierr.Close(obj))

	out := cmd.OutOrStdout()
	switch {
	case showKindFlag:
		fmt.Fprintln(out, obj.Kind())
		return nil
	case showSizeFlag:
		fmt.Fprintln(out, obj.Size())
		return nil
	}

	if obj.Kind() == utils.TreeObjectType {
		tree, err := objects.ParseTree(obj)
		if err != nil {
			return err
		}
		for _, entry := range tree.Entries() {
			fmt.Fprintln(out, entry.String())
		}
		return nil
	}

	// Blob and commit content is printed verbatim; reading to the end verifies the declared size
	if _, err := io.Copy(out, obj); err != nil {
		return fmt.Errorf("failed to read object %s: %w", args[0], err)
	}
	return nil
}
