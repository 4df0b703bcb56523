package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/internal/objects"
)

var (
	// ErrNotRepository is returned when no metadata directory is found above a path.
	ErrNotRepository = errors.New(constants.MetaDir + " directory not found")

	// ErrNoCommits is returned when HEAD points at a branch that has no commits yet.
	ErrNoCommits = errors.New("current branch has no commits yet")
)

func InitRepository(path string) error {
	// Resolves and adds OS specific separator
	metaDir := filepath.Join(path, constants.MetaDir)

	if err := checkRepositoryDoesNotExist(metaDir); err != nil {
		return err
	}

	// Track if initialization of directories and files was successful.
	// If it was not, everything created so far is removed again.
	var initSuccess bool
	defer func() {
		if !initSuccess {
			cleanupRepository(metaDir)
		}
	}()

	directories := []string{
		metaDir,
		filepath.Join(metaDir, constants.Objects),
		filepath.Join(metaDir, constants.Refs),
		filepath.Join(metaDir, constants.Refs, constants.Heads),
		filepath.Join(metaDir, constants.Refs, constants.Tags),
	}

	for _, directory := range directories {
		if err := os.MkdirAll(directory, constants.DirPerms); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", directory, err)
		}
	}

	// HEAD starts out pointing to the default branch, which has no ref file yet
	headFile := filepath.Join(metaDir, constants.Head)
	headContent := constants.DefaultRefPrefix + constants.DefaultBranch + "\n"

	if err := os.WriteFile(headFile, []byte(headContent), constants.FilePerms); err != nil {
		return fmt.Errorf("failed to create %s file: %w", constants.Head, err)
	}

	initSuccess = true
	return nil
}

func checkRepositoryDoesNotExist(path string) error {
	_, err := os.Stat(path)

	// If path doesn't exist there is no error
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to check repository path: %w", err)
	}

	return fmt.Errorf("repository already exists at %s", path)
}

// Removes the entire metadata directory if it exists
func cleanupRepository(metaDir string) {
	if _, err := os.Stat(metaDir); err == nil {
		slog.Debug("Cleaning up partial repository initialization",
			"path", metaDir)

		if err := os.RemoveAll(metaDir); err != nil {
			slog.Warn("Failed to cleanup repository directory",
				"path", metaDir,
				"error", err)
		} else {
			slog.Debug("Successfully cleaned up repository directory",
				"path", metaDir)
		}
	}
}

// FindRepoRoot locates the metadata directory by walking up from start.
func FindRepoRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		metaPath := filepath.Join(dir, constants.MetaDir)
		if info, err := os.Stat(metaPath); err == nil && info.IsDir() {
			return dir, nil
		}

		// Dir returns all but the last element of path
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotRepository
		}
		dir = parent
	}
}

// headPath returns the path of the HEAD file.
func headPath(repoPath string) string {
	return filepath.Join(repoPath, constants.MetaDir, constants.Head)
}

// readHead returns the trimmed HEAD content and, when HEAD is symbolic, the ref it names.
func readHead(repoPath string) (content string, ref string, err error) {
	raw, err := os.ReadFile(headPath(repoPath))
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", constants.Head, err)
	}

	content = strings.TrimSpace(string(raw))
	if ref, ok := strings.CutPrefix(content, constants.RefPrefix); ok {
		return content, strings.TrimSpace(ref), nil
	}
	return content, "", nil
}

// refPath maps a ref name like refs/heads/main to its file.
func refPath(repoPath, ref string) string {
	return filepath.Join(repoPath, constants.MetaDir, filepath.FromSlash(ref))
}

// ResolveHead returns the commit hash HEAD currently points to.
// A symbolic HEAD whose branch file does not exist yields ErrNoCommits.
func ResolveHead(repoPath string) (string, error) {
	content, ref, err := readHead(repoPath)
	if err != nil {
		return "", err
	}

	hash := content
	if ref != "" {
		raw, err := os.ReadFile(refPath(repoPath, ref))
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNoCommits, ref)
		}
		if err != nil {
			return "", fmt.Errorf("failed to read ref %s: %w", ref, err)
		}
		hash = strings.TrimSpace(string(raw))
	}

	if err := objects.ValidateHash(hash); err != nil {
		return "", fmt.Errorf("%s does not hold a commit hash: %w", constants.Head, err)
	}
	return hash, nil
}

// UpdateHead moves the current branch (or a detached HEAD) to hash.
func UpdateHead(repoPath, hash string) error {
	if err := objects.ValidateHash(hash); err != nil {
		return err
	}

	_, ref, err := readHead(repoPath)
	if err != nil {
		return err
	}

	target := headPath(repoPath)
	if ref != "" {
		target = refPath(repoPath, ref)
		if err := os.MkdirAll(filepath.Dir(target), constants.DirPerms); err != nil {
			return fmt.Errorf("failed to create directory for ref %s: %w", ref, err)
		}
	}

	if err := os.WriteFile(target, []byte(hash+"\n"), constants.FilePerms); err != nil {
		return fmt.Errorf("failed to update %s: %w", target, err)
	}

	slog.Debug("Updated head", "ref", ref, "hash", hash)
	return nil
}
