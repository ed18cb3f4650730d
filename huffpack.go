package huffpack

import (
	"github.com/chronos-tachyon/assert"
)

// Compress derives a Huffman code from the contents of data and encodes
// data with it, returning the resulting Payload.  Compress cannot fail; an
// empty input produces an empty Payload.
func Compress(data []byte) *Payload {
	codes := NewCodeTable(BuildTree(CountFrequencies(data)))

	var e Encoder
	e.Init(codes)
	return e.Encode(data)
}

// Decompress reverses Compress: it validates the payload's code table,
// decodes the packed bitstream, and returns the original buffer.  Every
// error it can return satisfies IsMalformedPayload.
func Decompress(p *Payload) ([]byte, error) {
	assert.Assertf(p != nil, "nil Payload")

	var d Decoder
	if err := d.Init(p.codes); err != nil {
		return nil, err
	}
	return d.Decode(p)
}
