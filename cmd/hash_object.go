package cmd

import (
	"fmt"

	"github.com/KostasZigo/gitodb/internal/objects"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var hashObjectCmd = &cobra.Command{
	Use:   "hash-object <filepath>",
	Short: "Compute object hash and optionally create and store a blob from a file",
	Long: `Compute the object hash (SHA-1 hash) for a file's content.
Optionally write the resulting object's blob into the objects folder.

Examples:
  # Compute hash without storing
  gitodb hash-object myfile.txt

  # Compute hash and store in .gitodb/objects
  gitodb hash-object -w myfile.txt`,
	SilenceUsage: true,
	Args:         exactArgs(1, "filepath"),
	RunE:         runHashObject,
}

var writeFlag bool

func init() {
	rootCmd.AddCommand(hashObjectCmd)

	// Add flag using Cobra's flag system
	hashObjectCmd.Flags().BoolVarP(&writeFlag, "write", "w", false, "Write the object into the objects folder")
}

// runHashObject computes hash and optionally stores blob object.
func runHashObject(cmd *cobra.Command, args []string) (retErr error) {
	// Stream the blob from the file's contents
	blob, err := objects.NewBlobFromFile(args[0])
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&retErr, multierr.Close(blob))

	var hash string
	if writeFlag {
		_, store, err := openStore()
		if err != nil {
			return err
		}

		if hash, err = store.Store(blob); err != nil {
			return fmt.Errorf("failed to store object: %w", err)
		}
	} else {
		// Hashing alone never touches the repository
		if hash, err = objects.NewObjectStore("").HashObject(blob); err != nil {
			return fmt.Errorf("failed to hash object: %w", err)
		}
	}

	// Print hash to stdout
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
