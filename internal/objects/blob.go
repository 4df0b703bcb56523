package objects

import (
	"fmt"
	"os"

	"github.com/KostasZigo/gitodb/utils"
)

// NewBlob returns an in-memory blob holding content.
func NewBlob(content []byte) *Object {
	return NewObject(utils.BlobObjectType, content)
}

// NewBlobFromFile returns a blob streaming the file at filepath. The declared size is the
// length reported by stat; if the file changes length before it is fully read, reading
// the blob fails with ErrSizeMismatch instead of storing truncated or padded content.
// The caller must close the returned object.
func NewBlobFromFile(filepath string) (*Object, error) {
	info, err := os.Stat(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filepath, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("failed to read file %s: %w: %s", filepath, ErrUnsupportedEntryType, info.Mode().Type())
	}

	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filepath, err)
	}

	return NewObjectFromReader(utils.BlobObjectType, info.Size(), file), nil
}
