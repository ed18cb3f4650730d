package huffpack

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// payloadVersion is the serialization format version written by WriteTo.
const payloadVersion = 1

// payloadHeaderLen is the size of the fixed serialization header: format
// version, padding bit count, code table entry count, original symbol
// count, packed byte length.
const payloadHeaderLen = 1 + 1 + 2 + 8 + 8

// Payload is the self-contained result of compressing a byte buffer: the
// code table the buffer was encoded with, the number of symbols in the
// original buffer, and the packed bitstream together with its exact length
// in bits.
//
// A Payload is immutable once constructed.  Payloads are produced by
// Encoder.Encode (or Compress) and by deserializing with ReadFrom or
// UnmarshalBinary.
type Payload struct {
	codes   CodeTable
	count   uint64
	numBits uint64
	packed  []byte
}

func newPayload(codes CodeTable, count, numBits uint64, packed []byte) *Payload {
	p := &Payload{
		codes:   make(CodeTable, len(codes)),
		count:   count,
		numBits: numBits,
		packed:  packed,
	}
	for symbol, hc := range codes {
		p.codes[symbol] = hc
	}
	return p
}

// Codes returns a copy of the payload's code table.
func (p *Payload) Codes() CodeTable {
	codes := make(CodeTable, len(p.codes))
	for symbol, hc := range p.codes {
		codes[symbol] = hc
	}
	return codes
}

// SymbolCount returns the number of symbols in the original buffer.
func (p *Payload) SymbolCount() uint64 {
	return p.count
}

// BitCount returns the exact number of data bits in the packed bitstream,
// excluding trailing padding.
func (p *Payload) BitCount() uint64 {
	return p.numBits
}

// PadBits returns the number of zero bits appended to the bitstream to
// reach a byte boundary.
func (p *Payload) PadBits() byte {
	return byte(uint64(len(p.packed))*8 - p.numBits)
}

// PackedLen returns the length of the packed bitstream in bytes.
func (p *Payload) PackedLen() int {
	return len(p.packed)
}

// Packed returns a copy of the packed bitstream.
func (p *Payload) Packed() []byte {
	packed := make([]byte, len(p.packed))
	copy(packed, p.packed)
	return packed
}

// WriteTo serializes the payload.  The layout is a fixed little-endian
// header (format version, padding bit count, number of code table entries,
// original symbol count, packed byte length), followed by one entry per
// codeword in ascending Symbol order (symbol value, codeword size in bits,
// then the codeword bits packed big-endian into the fewest whole bytes),
// followed by the packed bitstream.
func (p *Payload) WriteTo(w io.Writer) (int64, error) {
	var n int64

	var header [payloadHeaderLen]byte
	header[0] = payloadVersion
	header[1] = p.PadBits()
	binary.LittleEndian.PutUint16(header[2:4], uint16(len(p.codes)))
	binary.LittleEndian.PutUint64(header[4:12], p.count)
	binary.LittleEndian.PutUint64(header[12:20], uint64(len(p.packed)))

	written, err := w.Write(header[:])
	n += int64(written)
	if err != nil {
		return n, err
	}

	for _, entry := range p.codes.sortedEntries() {
		hc := entry.code
		numBytes := codeBytes(hc.Size)

		var buf [2 + 8]byte
		buf[0] = byte(entry.symbol)
		buf[1] = hc.Size
		for i := 0; i < numBytes; i++ {
			shift := 8 * (numBytes - 1 - i)
			buf[2+i] = byte(hc.Bits >> shift)
		}

		written, err = w.Write(buf[:2+numBytes])
		n += int64(written)
		if err != nil {
			return n, err
		}
	}

	written, err = w.Write(p.packed)
	n += int64(written)
	return n, err
}

// ReadFrom deserializes a payload written by WriteTo, replacing p.  It
// reads exactly the serialized bytes and no more.
//
// ReadFrom fails with an error wrapping ErrBadVersion for an unknown format
// version, ErrTruncatedPayload if the stream ends inside any declared
// region, ErrCorruptPayload if the header fields are inconsistent with each
// other, and ErrInvalidCodeTable if a table entry is syntactically
// impossible.  On any error, including a transport error from r, p is left
// unmodified.
func (p *Payload) ReadFrom(r io.Reader) (int64, error) {
	var n int64

	var header [payloadHeaderLen]byte
	read, err := io.ReadFull(r, header[:])
	n += int64(read)
	if err != nil {
		return n, truncated(err, "header")
	}

	if header[0] != payloadVersion {
		return n, fmt.Errorf("%w: %d", ErrBadVersion, header[0])
	}
	padBits := header[1]
	numSymbols := binary.LittleEndian.Uint16(header[2:4])
	count := binary.LittleEndian.Uint64(header[4:12])
	packedLen := binary.LittleEndian.Uint64(header[12:20])

	if padBits > 7 {
		return n, fmt.Errorf("%w: %d padding bits in final byte", ErrCorruptPayload, padBits)
	}
	if int(numSymbols) > NumSymbols {
		return n, fmt.Errorf("%w: code table with %d entries, max %d", ErrCorruptPayload, numSymbols, NumSymbols)
	}
	if packedLen == 0 && padBits != 0 {
		return n, fmt.Errorf("%w: empty bitstream with %d padding bits", ErrCorruptPayload, padBits)
	}
	if packedLen > math.MaxInt64/8 {
		return n, fmt.Errorf("%w: unreasonable packed length %d", ErrCorruptPayload, packedLen)
	}
	numBits := packedLen*8 - uint64(padBits)
	if count > numBits {
		return n, fmt.Errorf("%w: %d symbols cannot fit in %d data bits", ErrCorruptPayload, count, numBits)
	}

	codes := make(CodeTable, numSymbols)
	for i := 0; i < int(numSymbols); i++ {
		var head [2]byte
		read, err = io.ReadFull(r, head[:])
		n += int64(read)
		if err != nil {
			return n, truncated(err, "code table")
		}

		symbol, size := Symbol(head[0]), head[1]
		if size == 0 {
			return n, fmt.Errorf("%w: empty codeword for symbol %d", ErrInvalidCodeTable, symbol)
		}
		if size > MaxCodeSize {
			return n, fmt.Errorf("%w: codeword for symbol %d is %d bits long, max %d", ErrInvalidCodeTable, symbol, size, MaxCodeSize)
		}
		if _, found := codes[symbol]; found {
			return n, fmt.Errorf("%w: symbol %d listed twice", ErrInvalidCodeTable, symbol)
		}

		numBytes := codeBytes(size)
		var group [8]byte
		read, err = io.ReadFull(r, group[:numBytes])
		n += int64(read)
		if err != nil {
			return n, truncated(err, "code table")
		}
		var bits uint64
		for _, b := range group[:numBytes] {
			bits = bits<<8 | uint64(b)
		}
		if bits>>size != 0 {
			return n, fmt.Errorf("%w: codeword for symbol %d has stray bits beyond its %d-bit size", ErrCorruptPayload, symbol, size)
		}
		codes[symbol] = MakeCode(size, bits)
	}

	var packed bytes.Buffer
	copied, err := io.CopyN(&packed, r, int64(packedLen))
	n += copied
	if err != nil {
		return n, truncated(err, "packed bitstream")
	}

	*p = Payload{
		codes:   codes,
		count:   count,
		numBits: numBits,
		packed:  packed.Bytes(),
	}
	return n, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *Payload) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.  Unlike ReadFrom
// it consumes the whole input: trailing bytes after the serialized payload
// fail with an error wrapping ErrCorruptPayload.
func (p *Payload) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	var parsed Payload
	if _, err := parsed.ReadFrom(r); err != nil {
		return err
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes after payload", ErrCorruptPayload, r.Len())
	}

	*p = parsed
	return nil
}

var (
	_ io.WriterTo                = (*Payload)(nil)
	_ io.ReaderFrom              = (*Payload)(nil)
	_ encoding.BinaryMarshaler   = (*Payload)(nil)
	_ encoding.BinaryUnmarshaler = (*Payload)(nil)
)

// codeBytes returns the number of whole bytes needed to hold size bits.
func codeBytes(size byte) int {
	return (int(size) + 7) / 8
}

// truncated maps the io errors of a partial read to ErrTruncatedPayload.
// Transport errors pass through unchanged.
func truncated(err error, region string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s cut short", ErrTruncatedPayload, region)
	}
	return err
}
