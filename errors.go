package huffpack

import (
	"errors"
)

// ErrInvalidCodeTable indicates a code table that cannot describe a
// prefix-free Huffman code: an empty or oversized codeword, a duplicate
// codeword, or one codeword that is a prefix of another.
var ErrInvalidCodeTable = errors.New("huffpack: invalid code table")

// ErrTruncatedPayload indicates a payload that ends before all of its
// declared content has been read.
var ErrTruncatedPayload = errors.New("huffpack: truncated payload")

// ErrCorruptPayload indicates a payload whose declared metadata is
// inconsistent with its content.
var ErrCorruptPayload = errors.New("huffpack: corrupt payload")

// ErrBadVersion indicates a serialized payload with an unknown format
// version.
var ErrBadVersion = errors.New("huffpack: unsupported payload version")

// IsMalformedPayload reports whether err arose from a payload that could not
// be decoded, whatever the specific defect.
func IsMalformedPayload(err error) bool {
	return errors.Is(err, ErrInvalidCodeTable) ||
		errors.Is(err, ErrTruncatedPayload) ||
		errors.Is(err, ErrCorruptPayload) ||
		errors.Is(err, ErrBadVersion)
}
