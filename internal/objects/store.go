package objects

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/utils"
	"github.com/klauspost/compress/zlib"
	"go.uber.org/multierr"
)

var objectsRelativeFilePath string = filepath.Join(constants.MetaDir, constants.Objects)

// ObjectStore manages loose objects under <repo>/.gitodb/objects.
// It assumes exclusive single-process access.
type ObjectStore struct {
	repoPath string // Path to repository root
}

func NewObjectStore(repoPath string) *ObjectStore {
	return &ObjectStore{
		repoPath: repoPath,
	}
}

// ObjectsDir returns the directory holding the shard directories.
func (store *ObjectStore) ObjectsDir() string {
	return filepath.Join(store.repoPath, objectsRelativeFilePath)
}

// objectPath returns .gitodb/objects/<first 2 chars>/<remaining 38 chars> for hash.
func (store *ObjectStore) objectPath(hash string) string {
	return filepath.Join(store.ObjectsDir(), hash[:constants.HashDirPrefixLength], hash[constants.HashDirPrefixLength:])
}

// WriteObject stores the next size bytes of r as an object of the given kind.
func (store *ObjectStore) WriteObject(kind utils.ObjectType, size int64, r io.Reader) (string, error) {
	return store.Store(newObject(kind, size, r, nil))
}

// Store compresses obj into a temporary file while hashing it, then renames the file
// to its content-addressed path. Storing an object that already exists is a no-op.
// Store does not close obj.
func (store *ObjectStore) Store(obj *Object) (hash string, retErr error) {
	tmp, err := os.CreateTemp(store.ObjectsDir(), constants.TempObjectPattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary object file: %w", err)
	}
	tmpPath := tmp.Name()

	renamed := false
	defer func() {
		if !renamed {
			if err := os.Remove(tmpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
				retErr = multierr.Append(retErr, fmt.Errorf("failed to remove temporary object file: %w", err))
			}
		}
	}()

	hash, err = writeCompressed(tmp, obj)
	err = multierr.Append(err, tmp.Close())
	if err != nil {
		return "", fmt.Errorf("failed to write %s object: %w", obj.Kind(), err)
	}

	objectDir := filepath.Join(store.ObjectsDir(), hash[:constants.HashDirPrefixLength])
	if err := os.Mkdir(objectDir, constants.DirPerms); err != nil && !errors.Is(err, fs.ErrExist) {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}

	objectFile := store.objectPath(hash)

	// Check if object already exists (content-addressable)
	if _, err := os.Stat(objectFile); err == nil {
		slog.Debug("Object with this hash already exists",
			"hash", hash)
		return hash, nil
	}

	if err := os.Rename(tmpPath, objectFile); err != nil {
		return "", fmt.Errorf("failed to move object %s into place: %w", hash, err)
	}
	renamed = true

	slog.Debug("Stored object",
		"hash", hash,
		"kind", obj.Kind(),
		"size", obj.Size())
	return hash, nil
}

// HashObject computes the hash obj would be stored under without writing anything.
// Like Store it consumes obj.
func (store *ObjectStore) HashObject(obj *Object) (string, error) {
	hw := NewHashWriter(io.Discard)
	if err := EncodeFrame(hw, obj); err != nil {
		return "", err
	}
	return hw.Hash(), nil
}

// writeCompressed frames obj through the hasher into a zlib stream on w.
func writeCompressed(w io.Writer, obj *Object) (string, error) {
	zw := zlib.NewWriter(w)
	hw := NewHashWriter(zw)

	if err := EncodeFrame(hw, obj); err != nil {
		return "", multierr.Append(err, zw.Close())
	}

	// Call Close in order to flush any buffered data
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to flush compressed data: %w", err)
	}
	return hw.Hash(), nil
}

// ReadObject opens the object stored under hash. The returned object streams
// decompressed content and must be closed by the caller.
func (store *ObjectStore) ReadObject(hash string) (*Object, error) {
	if err := ValidateHash(hash); err != nil {
		return nil, err
	}

	file, err := os.Open(store.objectPath(hash))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read object file %s: %w: %w", hash, ErrObjectNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read object file %s: %w", hash, err)
	}

	reader, err := zlib.NewReader(file)
	if err != nil {
		return nil, multierr.Append(
			fmt.Errorf("failed to create new reader for object %s: %w", hash, err),
			file.Close())
	}

	obj, err := DecodeFrame(reader)
	if err != nil {
		return nil, multierr.Combine(
			fmt.Errorf("failed to decode object %s: %w", hash, err),
			reader.Close(),
			file.Close())
	}
	obj.closer = closerFunc(func() error {
		return multierr.Append(reader.Close(), file.Close())
	})
	return obj, nil
}

// ReadTree reads and parses the tree stored under hash.
func (store *ObjectStore) ReadTree(hash string) (_ *Tree, retErr error) {
	obj, err := store.ReadObject(hash)
	if err != nil {
		return nil, err
	}
	defer multierr.AppendInvoke(&retErr, multierr.Close(obj))

	return ParseTree(obj)
}

// ReadCommit reads and parses the commit stored under hash.
func (store *ObjectStore) ReadCommit(hash string) (_ *Commit, retErr error) {
	obj, err := store.ReadObject(hash)
	if err != nil {
		return nil, err
	}
	defer multierr.AppendInvoke(&retErr, multierr.Close(obj))

	return ParseCommit(hash, obj)
}

// Exists checks if an object exists in storage
func (store *ObjectStore) Exists(hash string) bool {
	if ValidateHash(hash) != nil {
		return false
	}
	_, err := os.Stat(store.objectPath(hash))
	return err == nil
}

// ValidateHash reports whether hash is 40 lowercase hex characters.
func ValidateHash(hash string) error {
	if len(hash) != constants.HashStringLength {
		return fmt.Errorf("%w: %q has length %d, want %d", ErrInvalidHash, hash, len(hash), constants.HashStringLength)
	}
	for i := 0; i < len(hash); i++ {
		c := hash[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return fmt.Errorf("%w: %q contains non-hex character %q", ErrInvalidHash, hash, c)
		}
	}
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}
