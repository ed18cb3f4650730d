package huffpack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/chronos-tachyon/assert"
)

// MaxCodeSize is the longest codeword this package will produce or accept,
// in bits.
const MaxCodeSize = 64

// Code represents a sequence of bits: the branch choices that lead from the
// root of a coding tree to a leaf, where 0 descends left and 1 descends
// right.
type Code struct {
	// Size holds the number of valid bits.
	Size byte

	// Bits holds the actual values of the bits.  The most significant of
	// the low Size bits is the first bit.
	Bits uint64
}

// MakeCode is a convenience function that constructs a Code.
func MakeCode(size byte, bits uint64) Code {
	return Code{Size: size, Bits: bits}
}

// String returns the string representation of this Code.
func (hc Code) String() string {
	return strconv.Quote(hc.bitString())
}

// IsPrefixOf reports whether hc is a proper prefix of other.
func (hc Code) IsPrefixOf(other Code) bool {
	if hc.Size >= other.Size {
		return false
	}
	return hc.Bits == other.Bits>>(other.Size-hc.Size)
}

func (hc Code) bitString() string {
	if hc.Size == 0 {
		return ""
	}
	format := "%0" + strconv.FormatUint(uint64(hc.Size), 10) + "b"
	return fmt.Sprintf(format, hc.Bits)
}

// appendBit returns the Code that extends hc by one trailing bit.
func (hc Code) appendBit(bit uint64) Code {
	return MakeCode(hc.Size+1, hc.Bits<<1|bit)
}

var _ fmt.Stringer = Code{}

// CodeTable maps each Symbol of an alphabet to its codeword.  A usable table
// is prefix-free: no codeword is a proper prefix of another.
type CodeTable map[Symbol]Code

// NewCodeTable derives the codeword of every leaf reachable from root.
// Descending into a left child appends a 0 bit and descending into a right
// child appends a 1 bit; the bits accumulated on the way from the root to a
// leaf, in order, are that leaf's codeword.
//
// A root that is itself a leaf is assigned the single-bit codeword "0".  A
// nil root produces an empty table.
//
// Codewords longer than MaxCodeSize cannot occur for any tree built from a
// frequency table that was counted from a real buffer; encountering one is a
// contract violation and panics.
func NewCodeTable(root *Node) CodeTable {
	ct := make(CodeTable)
	if root == nil {
		return ct
	}
	if root.IsLeaf() {
		ct[root.Symbol] = MakeCode(1, 0)
		return ct
	}
	walkTree(ct, root, Code{})
	return ct
}

func walkTree(ct CodeTable, n *Node, hc Code) {
	if n.IsLeaf() {
		assert.Assertf(hc.Size <= MaxCodeSize, "codeword for symbol %d is %d bits long, max %d", n.Symbol, hc.Size, MaxCodeSize)
		ct[n.Symbol] = hc
		return
	}
	walkTree(ct, n.Left, hc.appendBit(0))
	walkTree(ct, n.Right, hc.appendBit(1))
}

// MinSize is the bit length of the shortest codeword in the table, or 0 if
// the table is empty.
func (ct CodeTable) MinSize() byte {
	var minSize byte
	var seen bool
	for _, hc := range ct {
		if !seen || minSize > hc.Size {
			minSize = hc.Size
			seen = true
		}
	}
	return minSize
}

// MaxSize is the bit length of the longest codeword in the table, or 0 if
// the table is empty.
func (ct CodeTable) MaxSize() byte {
	var maxSize byte
	for _, hc := range ct {
		if maxSize < hc.Size {
			maxSize = hc.Size
		}
	}
	return maxSize
}

// Dump writes a programmer-readable debugging dump of the table to the given
// writer, sorted by Symbol.
func (ct CodeTable) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("CodeTable{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", ct.MinSize())
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", ct.MaxSize())
	for _, entry := range ct.sortedEntries() {
		fmt.Fprintf(&buf, "\t[%d] = %s\n", entry.symbol, entry.code)
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// DebugString returns the result of Dump as a string.
func (ct CodeTable) DebugString() string {
	var buf bytes.Buffer
	_, _ = ct.Dump(&buf)
	return buf.String()
}

// String returns a one-line summary of the table.
func (ct CodeTable) String() string {
	if len(ct) == 0 {
		return "(empty Huffman code table)"
	}
	return fmt.Sprintf("(Huffman code table with %d symbols, with coded lengths of %d .. %d bits)", len(ct), ct.MinSize(), ct.MaxSize())
}

var _ fmt.Stringer = CodeTable(nil)

// MarshalJSON renders the table as a JSON object mapping each decimal Symbol
// value to its codeword bit string.
func (ct CodeTable) MarshalJSON() ([]byte, error) {
	obj := make(map[string]string, len(ct))
	for symbol, hc := range ct {
		obj[strconv.FormatUint(uint64(symbol), 10)] = hc.bitString()
	}
	return json.Marshal(obj)
}

// UnmarshalJSON parses the format produced by MarshalJSON.  The parsed table
// is checked syntactically only; Decoder.Init decides whether it actually
// describes a prefix-free code.
func (ct *CodeTable) UnmarshalJSON(raw []byte) error {
	var obj map[string]string
	if err := json.Unmarshal(raw, &obj); err != nil {
		return err
	}

	out := make(CodeTable, len(obj))
	for key, value := range obj {
		symbol, err := strconv.ParseUint(key, 10, 8)
		if err != nil {
			return fmt.Errorf("%w: symbol %q is not a byte value", ErrInvalidCodeTable, key)
		}
		hc, err := parseBitString(value)
		if err != nil {
			return err
		}
		out[Symbol(symbol)] = hc
	}
	*ct = out
	return nil
}

var _ json.Marshaler = CodeTable(nil)
var _ json.Unmarshaler = (*CodeTable)(nil)

func parseBitString(s string) (Code, error) {
	if s == "" {
		return Code{}, fmt.Errorf("%w: empty codeword", ErrInvalidCodeTable)
	}
	if len(s) > MaxCodeSize {
		return Code{}, fmt.Errorf("%w: codeword %q is %d bits long, max %d", ErrInvalidCodeTable, s, len(s), MaxCodeSize)
	}

	var bits uint64
	for _, ch := range s {
		switch ch {
		case '0':
			bits <<= 1
		case '1':
			bits = bits<<1 | 1
		default:
			return Code{}, fmt.Errorf("%w: codeword %q contains %q", ErrInvalidCodeTable, s, ch)
		}
	}
	return MakeCode(byte(len(s)), bits), nil
}

func (ct CodeTable) sortedEntries() []tableEntry {
	entries := make(bySymbol, 0, len(ct))
	for symbol, hc := range ct {
		entries = append(entries, tableEntry{symbol, hc})
	}
	entries.Sort()
	return entries
}

// type tableEntry + type bySymbol {{{

type tableEntry struct {
	symbol Symbol
	code   Code
}

type bySymbol []tableEntry

func (list bySymbol) Sort() {
	sort.Sort(list)
}

func (list bySymbol) Len() int {
	return len(list)
}

func (list bySymbol) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list bySymbol) Less(i, j int) bool {
	return list[i].symbol < list[j].symbol
}

var _ sort.Interface = bySymbol(nil)

// }}}
