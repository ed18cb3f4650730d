package huffpack

import (
	"bytes"

	"github.com/chronos-tachyon/assert"
	"github.com/icza/bitio"
)

// Encoder transforms byte buffers into packed bitstreams using a fixed code
// table.
type Encoder struct {
	codes   CodeTable
	minSize byte
	maxSize byte
}

// Init initializes this Encoder with the given code table.  The table is
// retained, not copied; it must not be modified while the Encoder is in use.
// Every byte value that later appears in a buffer given to Encode must have
// a codeword in the table.
func (e *Encoder) Init(codes CodeTable) {
	*e = Encoder{
		codes:   codes,
		minSize: codes.MinSize(),
		maxSize: codes.MaxSize(),
	}
}

// Encode concatenates the codewords of each byte of data, in order, into a
// packed bitstream, zero-pads the final partial byte, and bundles the result
// with the code table and the buffer's dimensions as a Payload.
//
// Encoding a byte with no codeword is a contract violation and panics.  An
// empty buffer produces an empty Payload.
func (e Encoder) Encode(data []byte) *Payload {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)

	var numBits uint64
	for _, value := range data {
		hc, found := e.codes[Symbol(value)]
		assert.Assertf(found, "symbol %d has no codeword", value)
		w.TryWriteBits(hc.Bits, hc.Size)
		numBits += uint64(hc.Size)
	}
	assert.Assertf(w.TryError == nil, "bit sink failed: %v", w.TryError)

	closeErr := w.Close()
	assert.Assertf(closeErr == nil, "bit sink failed on close: %v", closeErr)

	return newPayload(e.codes, uint64(len(data)), numBits, buf.Bytes())
}

// MinSize is the bit length of the shortest codeword in the table.
func (e Encoder) MinSize() byte {
	return e.minSize
}

// MaxSize is the bit length of the longest codeword in the table.
func (e Encoder) MaxSize() byte {
	return e.maxSize
}

// Codes returns the Encoder's code table.
func (e Encoder) Codes() CodeTable {
	return e.codes
}
