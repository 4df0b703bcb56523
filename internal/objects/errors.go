package objects

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the object store and codecs.
// Callers match them with errors.Is; returned errors always carry the path or hash involved.
var (
	// ErrObjectNotFound is returned when no object file exists for a hash.
	ErrObjectNotFound = errors.New("object not found")

	// ErrInvalidFormat is returned when stored or supplied bytes do not follow the object format.
	ErrInvalidFormat = errors.New("invalid object format")

	// ErrUnknownKind is returned when a header names a kind other than blob, tree or commit.
	ErrUnknownKind = fmt.Errorf("%w: unrecognized kind", ErrInvalidFormat)

	// ErrInvalidHash is returned for identifiers that are not 40 lowercase hex characters.
	ErrInvalidHash = fmt.Errorf("%w: malformed hash", ErrInvalidFormat)

	// ErrSizeMismatch is returned when a content stream yields more or fewer bytes than declared.
	ErrSizeMismatch = errors.New("object size mismatch")

	// ErrUnsupportedEntryType is returned by the tree builder for entries that are neither
	// regular files nor directories.
	ErrUnsupportedEntryType = errors.New("unsupported directory entry type")
)
