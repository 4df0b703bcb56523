package utils

import (
	"crypto/sha1"
	"fmt"
	"path/filepath"
	"strings"
)

type ObjectType string

const (
	BlobObjectType   ObjectType = "blob"
	TreeObjectType   ObjectType = "tree"
	CommitObjectType ObjectType = "commit"
)

func (ot ObjectType) IsValid() bool {
	switch ot {
	case BlobObjectType, TreeObjectType, CommitObjectType:
		return true
	default:
		return false
	}
}

// ParseObjectType maps a header kind token to its ObjectType.
// Tokens are case sensitive; anything but the three lowercase names is rejected.
func ParseObjectType(token string) (ObjectType, bool) {
	ot := ObjectType(token)
	if !ot.IsValid() {
		return "", false
	}
	return ot, true
}

// Header renders the frame header "<type> <size>\0".
func Header(objectType ObjectType, size int64) string {
	return fmt.Sprintf("%s %d\x00", objectType, size)
}

// ComputeHash calculates the SHA-1 hash of in-memory content framed as objectType.
// The object store hashes while streaming; this is the buffered equivalent.
func ComputeHash(content []byte, objectType ObjectType) (string, error) {
	if !objectType.IsValid() {
		return "", fmt.Errorf("invalid object type: %s - hash not computed", objectType)
	}

	// format: "ObjectType <size>\0<content>"
	header := Header(objectType, int64(len(content)))
	data := append([]byte(header), content...)
	hash := sha1.Sum(data)
	return fmt.Sprintf("%x", hash), nil
}

// BuildDirPath constructs os-agnostic display direcotry path with trailing separator preserving all components.
// Unlike filepath.Join, does not normalize "." or remove redundant separators.
func BuildDirPath(dirs ...string) string {
	return strings.Join(dirs, string(filepath.Separator)) + string(filepath.Separator)
}
