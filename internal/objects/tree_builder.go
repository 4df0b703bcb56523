package objects

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/KostasZigo/gitodb/internal/constants"
	"go.uber.org/multierr"
)

// TreeBuilder snapshots a directory into blob and tree objects.
type TreeBuilder struct {
	store *ObjectStore
	skip  map[string]struct{}
}

// NewTreeBuilder returns a builder writing into store that ignores entries named in
// skipNames at every depth.
func NewTreeBuilder(store *ObjectStore, skipNames ...string) *TreeBuilder {
	skip := make(map[string]struct{}, len(skipNames))
	for _, name := range skipNames {
		skip[name] = struct{}{}
	}
	return &TreeBuilder{
		store: store,
		skip:  skip,
	}
}

// BuildTreeFromDirectory snapshots dirPath skipping constants.DefaultSkipNames.
func BuildTreeFromDirectory(store *ObjectStore, dirPath string) (string, error) {
	return NewTreeBuilder(store, constants.DefaultSkipNames...).Build(dirPath)
}

// Build writes every regular file below dirPath as a blob and every directory as a tree,
// and returns the hash of the tree for dirPath itself.
// Symlinks, devices, sockets and pipes fail with ErrUnsupportedEntryType.
func (b *TreeBuilder) Build(dirPath string) (string, error) {
	dirEntries, err := os.ReadDir(dirPath)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dirPath, err)
	}

	entries := make([]TreeEntry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		name := dirEntry.Name()
		if _, ok := b.skip[name]; ok {
			slog.Debug("Skipping directory entry",
				"path", filepath.Join(dirPath, name))
			continue
		}

		entry, err := b.buildEntry(filepath.Join(dirPath, name), dirEntry)
		if err != nil {
			return "", err
		}
		entries = append(entries, entry)
	}

	tree, err := NewTree(entries)
	if err != nil {
		return "", fmt.Errorf("failed to build tree for %s: %w", dirPath, err)
	}

	hash, err := b.store.Store(tree.Object())
	if err != nil {
		return "", fmt.Errorf("failed to store tree for %s: %w", dirPath, err)
	}

	slog.Debug("Wrote tree",
		"path", dirPath,
		"hash", hash,
		"entries", len(entries))
	return hash, nil
}

func (b *TreeBuilder) buildEntry(path string, dirEntry fs.DirEntry) (TreeEntry, error) {
	name := dirEntry.Name()

	switch entryType := dirEntry.Type(); {
	case entryType.IsDir():
		hash, err := b.Build(path)
		if err != nil {
			return TreeEntry{}, err
		}
		return TreeEntry{mode: ModeDirectory, name: name, hash: hash}, nil

	case entryType.IsRegular():
		info, err := dirEntry.Info()
		if err != nil {
			return TreeEntry{}, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		hash, err := b.writeBlob(path)
		if err != nil {
			return TreeEntry{}, err
		}
		return TreeEntry{mode: fileModeOf(info.Mode()), name: name, hash: hash}, nil

	default:
		return TreeEntry{}, fmt.Errorf("failed to snapshot %s: %w: %s", path, ErrUnsupportedEntryType, entryType)
	}
}

func (b *TreeBuilder) writeBlob(path string) (_ string, retErr error) {
	blob, err := NewBlobFromFile(path)
	if err != nil {
		return "", err
	}
	defer multierr.AppendInvoke(&retErr, multierr.Close(blob))

	hash, err := b.store.Store(blob)
	if err != nil {
		return "", fmt.Errorf("failed to store blob for %s: %w", path, err)
	}
	return hash, nil
}

// fileModeOf normalizes permission bits to the two modes stored for regular files.
func fileModeOf(mode fs.FileMode) FileMode {
	if mode.Perm()&0o100 != 0 {
		return ModeExecutable
	}
	return ModeRegularFile
}
