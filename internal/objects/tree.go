package objects

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/utils"
)

// FileMode is the octal mode recorded for a tree entry.
type FileMode uint32

const (
	ModeRegularFile FileMode = 0o100644 // Regular non-executable file
	ModeExecutable  FileMode = 0o100755 // Executable file
	ModeSymlink     FileMode = 0o120000 // Symbolic link
	ModeDirectory   FileMode = 0o040000 // Directory (tree)
	ModeSubmodule   FileMode = 0o160000 // Submodule commit
)

func (m FileMode) IsValid() bool {
	switch m {
	case ModeRegularFile, ModeExecutable, ModeSymlink, ModeDirectory, ModeSubmodule:
		return true
	default:
		return false
	}
}

// String renders the mode in octal without zero padding, as stored in trees ("40000").
func (m FileMode) String() string {
	return strconv.FormatUint(uint64(m), 8)
}

// ParseFileMode parses an octal mode as found in a tree payload.
func ParseFileMode(s string) (FileMode, error) {
	mode, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid file mode %q", ErrInvalidFormat, s)
	}
	return FileMode(mode), nil
}

// TreeEntry represents a single entry in a tree object
type TreeEntry struct {
	mode FileMode
	name string // raw name bytes, not necessarily UTF-8
	hash string // hex hash of the blob or tree the entry points to
}

func NewTreeEntry(mode FileMode, name string, hash string) (*TreeEntry, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("invalid file mode: %s", mode)
	}
	if name == "" || strings.ContainsAny(name, "/\x00") {
		return nil, fmt.Errorf("invalid tree entry name: %q", name)
	}
	if err := ValidateHash(hash); err != nil {
		return nil, fmt.Errorf("invalid hash for tree entry %q: %w", name, err)
	}
	return &TreeEntry{
		mode: mode,
		name: name,
		hash: hash,
	}, nil
}

func (e *TreeEntry) Mode() FileMode {
	return e.mode
}

func (e *TreeEntry) Name() string {
	return e.name
}

func (e *TreeEntry) Hash() string {
	return e.hash
}

func (e *TreeEntry) IsDirectory() bool {
	return e.mode == ModeDirectory
}

func (e *TreeEntry) IsExecutable() bool {
	return e.mode == ModeExecutable
}

// Kind returns the kind of object the entry points to.
func (e *TreeEntry) Kind() utils.ObjectType {
	switch e.mode {
	case ModeDirectory:
		return utils.TreeObjectType
	case ModeSubmodule:
		return utils.CommitObjectType
	default:
		return utils.BlobObjectType
	}
}

// String formats the entry the way ls-tree prints it.
func (e *TreeEntry) String() string {
	return fmt.Sprintf("%06o %s %s\t%s", uint32(e.mode), e.Kind(), e.hash, e.name)
}

// Tree represents a directory listing
type Tree struct {
	entries []TreeEntry
	hash    string
}

// NewTree creates a tree object from the list of Tree Entries
func NewTree(treeEntries []TreeEntry) (*Tree, error) {
	// Entries are part of the hashed content, so their order must be canonical
	entries := make([]TreeEntry, len(treeEntries))
	copy(entries, treeEntries)

	slices.SortStableFunc(entries, compareTreeEntries)

	content, err := buildTreeContent(entries)
	if err != nil {
		return nil, err
	}
	hash, err := utils.ComputeHash(content, utils.TreeObjectType)
	if err != nil {
		return nil, fmt.Errorf("failed to compute hash for tree: %w", err)
	}

	return &Tree{
		entries: entries,
		hash:    hash,
	}, nil
}

// compareTreeEntries orders entries by name bytes, comparing a directory's name as if it
// had a trailing "/". A file "b", a directory "b" and a file "ba" therefore sort as
// "b" < "b/" < "ba", since '/' sorts before every letter.
func compareTreeEntries(a, b TreeEntry) int {
	nameA := getSortableName(a)
	nameB := getSortableName(b)
	return strings.Compare(nameA, nameB)
}

// getSortableName returns the name used for sorting.
func getSortableName(entry TreeEntry) string {
	if entry.IsDirectory() {
		return entry.Name() + "/"
	}
	return entry.Name()
}

// buildTreeContent creates the raw tree content
// <mode> <name>\0<20-byte binary SHA> , ex:
// 100644 README.md\0[binary SHA for README blob]
// 40000 src\0[binary SHA for src/ tree]
func buildTreeContent(entries []TreeEntry) ([]byte, error) {
	var buf bytes.Buffer

	for _, entry := range entries {
		hashBytes, err := hex.DecodeString(entry.Hash())
		if err != nil || len(hashBytes) != constants.HashByteLength {
			return nil, fmt.Errorf("%w: tree entry %q has hash %q", ErrInvalidHash, entry.Name(), entry.Hash())
		}

		buf.WriteString(entry.Mode().String())
		buf.WriteByte(constants.SpaceByte)
		buf.WriteString(entry.Name())
		buf.WriteByte(constants.NullByte)
		buf.Write(hashBytes)
	}

	return buf.Bytes(), nil
}

// ParseTree decodes the listing of a tree object. Entries keep their stored order.
func ParseTree(obj *Object) (*Tree, error) {
	if obj.Kind() != utils.TreeObjectType {
		return nil, fmt.Errorf("%w: expected tree, got %s", ErrInvalidFormat, obj.Kind())
	}

	content, err := obj.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree content: %w", err)
	}

	var entries []TreeEntry
	rest := content
	for len(rest) > 0 {
		spaceIndex := bytes.IndexByte(rest, constants.SpaceByte)
		if spaceIndex <= 0 {
			return nil, fmt.Errorf("%w: tree entry %d has no mode separator", ErrInvalidFormat, len(entries))
		}
		mode, err := ParseFileMode(string(rest[:spaceIndex]))
		if err != nil {
			return nil, err
		}
		rest = rest[spaceIndex+1:]

		nullIndex := bytes.IndexByte(rest, constants.NullByte)
		if nullIndex <= 0 {
			return nil, fmt.Errorf("%w: tree entry %d has no name terminator", ErrInvalidFormat, len(entries))
		}
		name := string(rest[:nullIndex])
		rest = rest[nullIndex+1:]

		if len(rest) < constants.HashByteLength {
			return nil, fmt.Errorf("%w: tree entry %q has a truncated hash", ErrInvalidFormat, name)
		}
		hash := hex.EncodeToString(rest[:constants.HashByteLength])
		rest = rest[constants.HashByteLength:]

		entries = append(entries, TreeEntry{mode: mode, name: name, hash: hash})
	}

	hash, err := utils.ComputeHash(content, utils.TreeObjectType)
	if err != nil {
		return nil, err
	}
	return &Tree{
		entries: entries,
		hash:    hash,
	}, nil
}

// Hash returns the SHA-1 hash of the tree
func (t *Tree) Hash() string {
	return t.hash
}

// Entries returns all tree entries
func (t *Tree) Entries() []TreeEntry {
	return t.entries
}

// Content returns the raw tree content
func (t *Tree) Content() []byte {
	// entries were validated on construction
	content, _ := buildTreeContent(t.entries)
	return content
}

// Size returns the size of the tree content
func (t *Tree) Size() int {
	return len(t.Content())
}

// Object returns the tree as an in-memory object ready to be stored.
func (t *Tree) Object() *Object {
	return NewObject(utils.TreeObjectType, t.Content())
}

// String returns a human-readable representation
func (t *Tree) String() string {
	return fmt.Sprintf("Tree{hash: %s, entries: %d}", t.hash, len(t.entries))
}

// FindEntry finds an entry by name
func (t *Tree) FindEntry(name string) (*TreeEntry, bool) {
	for i := range t.entries {
		if t.entries[i].Name() == name {
			return &t.entries[i], true
		}
	}
	return nil, false
}
