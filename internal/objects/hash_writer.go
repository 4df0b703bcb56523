package objects

import (
	"encoding/hex"
	"hash"
	"io"

	"github.com/pjbgf/sha1cd"
)

// HashWriter forwards writes to an underlying writer while hashing the same bytes.
// Wrapping a compressing writer yields the digest of the uncompressed stream.
type HashWriter struct {
	writer io.Writer
	hasher hash.Hash
}

func NewHashWriter(w io.Writer) *HashWriter {
	return &HashWriter{
		writer: w,
		hasher: sha1cd.New(),
	}
}

// Write passes p downstream and feeds the accepted prefix to the digest.
func (hw *HashWriter) Write(p []byte) (int, error) {
	n, err := hw.writer.Write(p)
	// hash.Hash.Write never returns an error
	hw.hasher.Write(p[:n])
	return n, err
}

// Sum returns the 20-byte digest of everything written so far.
func (hw *HashWriter) Sum() []byte {
	return hw.hasher.Sum(nil)
}

// Hash returns the hex form of Sum.
func (hw *HashWriter) Hash() string {
	return hex.EncodeToString(hw.Sum())
}
