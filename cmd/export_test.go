package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/testutils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// createTestRootCmd creates fresh root command with the given subcommand.
// Flags of the subcommand are reset since cobra binds them to package variables.
func createTestRootCmd(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})

	testRootCmd := &cobra.Command{Use: "gitodb"}
	testRootCmd.AddCommand(cmd)
	return testRootCmd
}

// captureStdout returns command stdout output as string.
func captureStdout(cmd *cobra.Command) *bytes.Buffer {
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	return &stdout
}

// captureStderr returns command stderr output as string.
func captureStderr(cmd *cobra.Command) *bytes.Buffer {
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	return &stderr
}

// executeCommand runs cmd with args on a fresh root and returns trimmed stdout.
func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	testRootCmd := createTestRootCmd(cmd)
	stdout := captureStdout(testRootCmd)
	captureStderr(testRootCmd)
	testRootCmd.SetArgs(append([]string{cmd.Name()}, args...))

	err := testRootCmd.Execute()
	return strings.TrimSpace(stdout.String()), err
}

// mustExecuteCommand is executeCommand failing the test on error.
func mustExecuteCommand(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()

	output, err := executeCommand(t, cmd, args...)
	if err != nil {
		t.Fatalf("%s %v failed: %v", cmd.Name(), args, err)
	}
	return output
}

// setupCommitRepo initializes a repository holding a single file, enters it and
// pins the clock and the author identity.
func setupCommitRepo(t *testing.T) string {
	t.Helper()

	repoPath := testutils.SetupTestRepoWithInit(t)
	testutils.CreateTestFile(t, repoPath, "a.txt", []byte("alpha\n"))
	changeToRepoDir(t, repoPath)

	t.Setenv(constants.AuthorNameEnv, "Env User")
	t.Setenv(constants.AuthorEmailEnv, "env@example.com")
	freezeClock(t, time.Unix(1700000000, 0))

	return repoPath
}

// freezeClock makes new commits carry timestamp at.
func freezeClock(t *testing.T, at time.Time) {
	t.Helper()

	previous := now
	now = func() time.Time { return at }
	t.Cleanup(func() {
		now = previous
	})
}

// changeToRepoDir changes working directory to repo path and registers cleanup.
func changeToRepoDir(t *testing.T, repoPath string) {
	t.Helper()

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	if err := os.Chdir(repoPath); err != nil {
		t.Fatalf("Failed to change to directory %s: %v", repoPath, err)
	}

	t.Cleanup(func() {
		os.Chdir(oldDir)
	})
}
