package objects

import (
	"bytes"
	"fmt"
	"io"

	"github.com/KostasZigo/gitodb/utils"
)

const maxPreallocSize = 1 << 20

// Object is a typed content stream of a declared size.
// The same type serves blobs read from disk, objects read from the store and
// trees/commits built in memory; only the underlying reader differs.
//
// Reading past the declared size, or reaching the end of the source before it,
// fails with ErrSizeMismatch.
type Object struct {
	kind    utils.ObjectType
	size    int64
	content *sizedReader
	closer  io.Closer
}

// NewObject returns an in-memory object holding content.
func NewObject(kind utils.ObjectType, content []byte) *Object {
	return newObject(kind, int64(len(content)), bytes.NewReader(content), nil)
}

// NewObjectFromReader returns an object whose content is the next size bytes of r.
// If r is an io.Closer, closing the object closes r.
func NewObjectFromReader(kind utils.ObjectType, size int64, r io.Reader) *Object {
	closer, _ := r.(io.Closer)
	return newObject(kind, size, r, closer)
}

func newObject(kind utils.ObjectType, size int64, r io.Reader, closer io.Closer) *Object {
	return &Object{
		kind: kind,
		size: size,
		content: &sizedReader{
			r:         r,
			size:      size,
			remaining: size,
		},
		closer: closer,
	}
}

func (o *Object) Kind() utils.ObjectType {
	return o.kind
}

// Size returns the declared content size, excluding the header.
func (o *Object) Size() int64 {
	return o.size
}

// Remaining returns how many content bytes have not been read yet.
func (o *Object) Remaining() int64 {
	return o.content.remaining
}

func (o *Object) Read(p []byte) (int, error) {
	return o.content.Read(p)
}

// Close releases the underlying source. Safe to call on in-memory objects.
func (o *Object) Close() error {
	if o.closer == nil {
		return nil
	}
	err := o.closer.Close()
	o.closer = nil
	return err
}

// Bytes drains the remaining content.
func (o *Object) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	// the declared size comes from untrusted headers
	if remaining := o.Remaining(); remaining <= maxPreallocSize {
		buf.Grow(int(remaining))
	}
	if _, err := io.Copy(&buf, o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Header returns the frame header "<kind> <size>\0".
func (o *Object) Header() string {
	return utils.Header(o.kind, o.size)
}

func (o *Object) String() string {
	return fmt.Sprintf("Object{kind: %s, size: %d bytes}", o.kind, o.size)
}

// sizedReader yields exactly size bytes from r and reports any disagreement
// between the declared size and what r actually holds.
type sizedReader struct {
	r         io.Reader
	size      int64
	remaining int64
	err       error
}

func (sr *sizedReader) Read(p []byte) (int, error) {
	if sr.err != nil {
		return 0, sr.err
	}
	if sr.remaining == 0 {
		sr.err = sr.checkExhausted()
		return 0, sr.err
	}
	if len(p) == 0 {
		return 0, nil
	}

	if int64(len(p)) > sr.remaining {
		p = p[:sr.remaining]
	}
	n, err := sr.r.Read(p)
	sr.remaining -= int64(n)

	switch {
	case err == io.EOF && sr.remaining > 0:
		sr.err = fmt.Errorf("%w: declared %d bytes, source ended after %d",
			ErrSizeMismatch, sr.size, sr.size-sr.remaining)
		return n, sr.err
	case err == io.EOF:
		sr.err = io.EOF
		return n, io.EOF
	case err != nil:
		sr.err = err
		return n, err
	}
	return n, nil
}

// checkExhausted reads one more byte from the source once the declared size has been consumed.
// For zlib sources this read also verifies the stream checksum.
func (sr *sizedReader) checkExhausted() error {
	var extra [1]byte
	for {
		n, err := sr.r.Read(extra[:])
		if n > 0 {
			return fmt.Errorf("%w: declared %d bytes, source holds more", ErrSizeMismatch, sr.size)
		}
		if err != nil {
			return err
		}
	}
}
