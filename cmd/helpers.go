package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/internal/objects"
	"github.com/KostasZigo/gitodb/internal/repository"
	"github.com/spf13/cobra"
)

// now is the clock used to timestamp new commits.
var now = time.Now

// maximumArgs validates command receives at most n positional arguments.
// Returns error with usage help if argument limit exceeded.
func maximumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			cmd.SilenceUsage = false
			return fmt.Errorf("%s command accepts at most %d arg(s), received %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}

// exactArgs validates command receives exactly n positional arguments described by what.
// enables usage printing in case of error
func exactArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			cmd.SilenceUsage = false
			return fmt.Errorf("%s command requires exactly %d argument (%s), received %d", cmd.Name(), n, what, len(args))
		}
		return nil
	}
}

// openStore locates the enclosing repository and returns its root and object store.
func openStore() (string, *objects.ObjectStore, error) {
	repoPath, err := repository.FindRepoRoot(".")
	if err != nil {
		return "", nil, err
	}
	return repoPath, objects.NewObjectStore(repoPath), nil
}

// authorFlags holds the identity flags shared by commit-tree and commit.
type authorFlags struct {
	name  string
	email string
}

func (f *authorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "author-name", "", "Author name (defaults to $"+constants.AuthorNameEnv+")")
	cmd.Flags().StringVar(&f.email, "author-email", "", "Author email (defaults to $"+constants.AuthorEmailEnv+")")
}

// resolve picks flag values first, then the environment, then the built-in defaults.
func (f *authorFlags) resolve() objects.Author {
	return objects.Author{
		Name:      firstNonEmpty(f.name, os.Getenv(constants.AuthorNameEnv), constants.DefaultAuthorName),
		Email:     firstNonEmpty(f.email, os.Getenv(constants.AuthorEmailEnv), constants.DefaultAuthorEmail),
		Timestamp: now(),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
