package cmd

import (
	"fmt"
	"strings"

	"github.com/KostasZigo/gitodb/internal/objects"
	"github.com/KostasZigo/gitodb/internal/repository"
	"github.com/spf13/cobra"
)

// logDateLayout matches the date line git log prints.
const logDateLayout = "Mon Jan 2 15:04:05 2006 -0700"

var logCmd = &cobra.Command{
	Use:          "log",
	Short:        "Show the commit history reachable from HEAD",
	Long:         `Print each commit from HEAD back to the root commit, following first parents.`,
	SilenceUsage: true,
	Args:         maximumArgs(0),
	RunE:         runLog,
}

var maxCountFlag int

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().IntVarP(&maxCountFlag, "max-count", "n", 0, "Limit the number of commits shown (0 shows all)")
}

func runLog(cmd *cobra.Command, args []string) error {
	repoPath, store, err := openStore()
	if err != nil {
		return err
	}

	head, err := repository.ResolveHead(repoPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	shown := 0
	return objects.WalkHistory(store, head, func(c *objects.Commit) error {
		fmt.Fprintf(out, "commit %s\n", c.Hash())
		fmt.Fprintf(out, "Author: %s\n", c.Author())
		fmt.Fprintf(out, "Date:   %s\n\n", c.Author().Timestamp.Format(logDateLayout))
		for _, line := range strings.Split(strings.TrimSuffix(c.Message(), "\n"), "\n") {
			fmt.Fprintf(out, "    %s\n", line)
		}
		fmt.Fprintln(out)

		shown++
		if maxCountFlag > 0 && shown >= maxCountFlag {
			return objects.ErrStopWalk
		}
		return nil
	})
}
