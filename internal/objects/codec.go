package objects

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/utils"
)

// maxHeaderLength bounds the search for the header NUL ("commit " + 19 digits + NUL fits).
const maxHeaderLength = 32

// EncodeFrame writes "<kind> <size>\0" followed by exactly Size bytes of obj to w.
// obj must not have been read from yet.
func EncodeFrame(w io.Writer, obj *Object) error {
	if !obj.Kind().IsValid() {
		return fmt.Errorf("failed to encode object: %w: %q", ErrUnknownKind, obj.Kind())
	}
	if obj.Remaining() != obj.Size() {
		return fmt.Errorf("failed to encode %s: %d of %d content bytes already consumed",
			obj.Kind(), obj.Size()-obj.Remaining(), obj.Size())
	}

	if _, err := io.WriteString(w, obj.Header()); err != nil {
		return fmt.Errorf("failed to write %s header: %w", obj.Kind(), err)
	}
	if _, err := io.Copy(w, obj); err != nil {
		return fmt.Errorf("failed to write %s content: %w", obj.Kind(), err)
	}
	return nil
}

// DecodeFrame parses the header of an uncompressed frame read from r and returns an
// object streaming the content that follows. The returned object does not close r.
func DecodeFrame(r io.Reader) (*Object, error) {
	br := bufio.NewReader(r)

	header, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	kind, size, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	return newObject(kind, size, br, nil), nil
}

// readHeader returns the bytes preceding the first NUL, consuming the NUL.
func readHeader(br *bufio.Reader) ([]byte, error) {
	header := make([]byte, 0, maxHeaderLength)
	for len(header) < maxHeaderLength {
		b, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no null byte found in header %q", ErrInvalidFormat, header)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read object header: %w", err)
		}
		if b == constants.NullByte {
			return header, nil
		}
		header = append(header, b)
	}
	return nil, fmt.Errorf("%w: no null byte within the first %d header bytes", ErrInvalidFormat, maxHeaderLength)
}

// parseHeader splits "<kind> <size>" into a known kind and a decimal size.
func parseHeader(header []byte) (utils.ObjectType, int64, error) {
	if !utf8.Valid(header) {
		return "", 0, fmt.Errorf("%w: header is not valid UTF-8", ErrInvalidFormat)
	}

	kindToken, sizeToken, found := strings.Cut(string(header), string(constants.SpaceByte))
	if !found {
		return "", 0, fmt.Errorf("%w: header %q has no kind/size separator", ErrInvalidFormat, header)
	}

	kind, ok := utils.ParseObjectType(kindToken)
	if !ok {
		return "", 0, fmt.Errorf("%w: %q", ErrUnknownKind, kindToken)
	}

	// ParseUint rejects signs, spaces and empty strings
	size, err := strconv.ParseUint(sizeToken, 10, 63)
	if err != nil {
		return "", 0, fmt.Errorf("%w: invalid size %q in %s header", ErrInvalidFormat, sizeToken, kind)
	}

	return kind, int64(size), nil
}
