package huffpack

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
)

// Decoder reconstructs byte buffers from packed bitstreams.
type Decoder struct {
	root    *trieNode
	minSize byte
	maxSize byte
}

// Init initializes this Decoder with the given code table, after checking
// that the table actually describes a prefix-free code.
//
// The table is untrusted: it typically arrives inside a deserialized
// Payload.  Init rejects empty codewords, codewords longer than MaxCodeSize,
// duplicate codewords, and any pair of codewords where one is a prefix of
// the other, each with an error wrapping ErrInvalidCodeTable.
//
// Init does not require the code to be complete.  Tables with zero entries
// or a single entry are permitted, as there is no way to express such
// alphabets with a complete code, and data bits that descend into a branch
// with no codewords are caught during Decode.
func (d *Decoder) Init(codes CodeTable) error {
	root := &trieNode{}
	var minSize, maxSize byte
	var count int

	for _, entry := range codes.sortedEntries() {
		symbol, hc := entry.symbol, entry.code
		if hc.Size == 0 {
			return fmt.Errorf("%w: empty codeword for symbol %d", ErrInvalidCodeTable, symbol)
		}
		if hc.Size > MaxCodeSize {
			return fmt.Errorf("%w: codeword for symbol %d is %d bits long, max %d", ErrInvalidCodeTable, symbol, hc.Size, MaxCodeSize)
		}

		node := root
		for i := hc.Size; i > 0; i-- {
			if node.leaf {
				return fmt.Errorf("%w: codeword %s for symbol %d extends the codeword for symbol %d", ErrInvalidCodeTable, hc, symbol, node.symbol)
			}
			if (hc.Bits>>(i-1))&1 == 0 {
				if node.left == nil {
					node.left = &trieNode{}
				}
				node = node.left
			} else {
				if node.right == nil {
					node.right = &trieNode{}
				}
				node = node.right
			}
		}
		switch {
		case node.leaf:
			return fmt.Errorf("%w: symbols %d and %d share the codeword %s", ErrInvalidCodeTable, node.symbol, symbol, hc)
		case node.left != nil || node.right != nil:
			return fmt.Errorf("%w: codeword %s for symbol %d is a prefix of another codeword", ErrInvalidCodeTable, hc, symbol)
		}
		node.leaf = true
		node.symbol = symbol

		if count == 0 {
			minSize, maxSize = hc.Size, hc.Size
		} else if minSize > hc.Size {
			minSize = hc.Size
		} else if maxSize < hc.Size {
			maxSize = hc.Size
		}
		count++
	}

	*d = Decoder{
		root:    root,
		minSize: minSize,
		maxSize: maxSize,
	}
	return nil
}

// Decode walks the packed bitstream of p and reconstructs the byte buffer it
// was encoded from.
//
// Decode fails with an error wrapping ErrTruncatedPayload if the bitstream
// ends before the payload's declared symbol count is reached, and with an
// error wrapping ErrCorruptPayload if the bits descend into a branch with no
// codewords or if data bits remain after the last symbol.  Padding bits are
// never interpreted as data.
func (d Decoder) Decode(p *Payload) ([]byte, error) {
	out := make([]byte, 0, p.count)
	r := bitio.NewReader(bytes.NewReader(p.packed))
	remaining := p.numBits

	node := d.root
	for uint64(len(out)) < p.count {
		if remaining == 0 {
			return nil, fmt.Errorf("%w: bitstream ends after %d of %d symbols", ErrTruncatedPayload, len(out), p.count)
		}
		bit, err := r.ReadBool()
		if err != nil {
			return nil, fmt.Errorf("%w: bitstream ends after %d of %d symbols", ErrTruncatedPayload, len(out), p.count)
		}
		remaining--

		if bit {
			node = node.right
		} else {
			node = node.left
		}
		if node == nil {
			return nil, fmt.Errorf("%w: bit sequence matches no codeword after %d symbols", ErrCorruptPayload, len(out))
		}
		if node.leaf {
			out = append(out, byte(node.symbol))
			node = d.root
		}
	}

	if remaining != 0 {
		return nil, fmt.Errorf("%w: %d data bits left over after %d symbols", ErrCorruptPayload, remaining, p.count)
	}
	return out, nil
}

// MinSize is the bit length of the shortest codeword in the table.
func (d Decoder) MinSize() byte {
	return d.minSize
}

// MaxSize is the bit length of the longest codeword in the table.
func (d Decoder) MaxSize() byte {
	return d.maxSize
}

// type trieNode {{{

// trieNode is a node of the codeword trie built by Init.  A node with leaf
// set terminates a codeword; its symbol field is only meaningful then.
type trieNode struct {
	left   *trieNode
	right  *trieNode
	symbol Symbol
	leaf   bool
}

// }}}
