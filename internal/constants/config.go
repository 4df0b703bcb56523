package constants

import "os"

// Command name constants used in tests and error messages.
// Cobra Use fields remain inline for CLI discoverability.
const (
	InitCmdName       = "init"
	HashObjectCmdName = "hash-object"
	CatFileCmdName    = "cat-file"
	LsTreeCmdName     = "ls-tree"
	WriteTreeCmdName  = "write-tree"
	CommitTreeCmdName = "commit-tree"
	CommitCmdName     = "commit"
	LogCmdName        = "log"
)

// Repository directory and file names define the gitodb metadata structure.
const (
	// MetaDir is the repository metadata directory.
	MetaDir = ".gitodb"

	// Objects stores content-addressable objects (blobs, trees, commits).
	Objects = "objects"

	// Refs contains branch and tag references.
	Refs = "refs"

	// Heads stores branch pointers under refs/.
	Heads = "heads"

	// Tags stores tag pointers under refs/.
	Tags = "tags"

	// Head points to current branch or detached commit.
	Head = "HEAD"

	// BuildDir is the build-artifact directory excluded from snapshots.
	BuildDir = "target"
)

// DefaultSkipNames are entry names never snapshotted by write-tree, at any depth.
var DefaultSkipNames = []string{MetaDir, BuildDir}

// Default repository values.
const (
	// DefaultBranch is the initial branch name for new repositories.
	DefaultBranch = "main"

	// RefPrefix marks a symbolic reference in HEAD.
	RefPrefix = "ref: "

	// DefaultRefPrefix is prepended to branch names in HEAD file.
	DefaultRefPrefix = RefPrefix + Refs + "/" + Heads + "/"
)

// Author identity used when neither flags nor environment provide one.
const (
	AuthorNameEnv  = "GITODB_AUTHOR_NAME"
	AuthorEmailEnv = "GITODB_AUTHOR_EMAIL"

	DefaultAuthorName  = "gitodb"
	DefaultAuthorEmail = "gitodb@localhost"
)

// File system permissions for created files and directories.
const (
	// DirPerms grants read/write/execute to owner, read/execute to others (rwxr-xr-x).
	DirPerms os.FileMode = 0755

	// FilePerms grants read/write to owner, read-only to others (rw-r--r--).
	FilePerms os.FileMode = 0644
)

// Cryptographic hash properties.
const (
	// HashByteLength is byte length of SHA-1 hash (20 bytes).
	HashByteLength = 20

	// HashStringLength is hex string length of SHA-1 hash (40 characters).
	HashStringLength = 40

	// HashDirPrefixLength is subdirectory prefix length under objects/ (2 characters).
	HashDirPrefixLength = 2
)

// Prefixes of the header lines inside commit objects.
const (
	CommitTreePrefix      = "tree "
	CommitParentPrefix    = "parent "
	CommitAuthorPrefix    = "author "
	CommitCommitterPrefix = "committer "
)

// Object format constants.
const (
	// NullByte separates header from content in objects and name from hash in tree entries.
	NullByte = '\x00'

	// SpaceByte separates kind from size in headers and mode from name in tree entries.
	SpaceByte = ' '

	// TempObjectPattern names in-flight object files inside objects/.
	TempObjectPattern = "tmp_obj_*"
)

// Time conversion constants for timezone formatting.
const (
	SecondsPerHour   = 3600
	SecondsPerMinute = 60
)
