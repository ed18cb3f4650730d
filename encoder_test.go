package huffpack

import (
	"bytes"
	"testing"
)

func TestEncoder(t *testing.T) {
	ct := NewCodeTable(BuildTree(CountFrequencies([]byte("abracadabra"))))

	var e Encoder
	e.Init(ct)

	if e.MinSize() != 1 || e.MaxSize() != 3 {
		t.Errorf("expected sizes 1 .. 3, got %d .. %d", e.MinSize(), e.MaxSize())
	}
	if codes := e.Codes(); len(codes) != 5 || codes['a'] != MakeCode(1, 0) {
		t.Errorf("expected the initialized table back, got %s", codes)
	}

	p := e.Encode([]byte("abracadabra"))
	if p.SymbolCount() != 11 {
		t.Errorf("expected 11 symbols, got %d", p.SymbolCount())
	}
	if p.BitCount() != 23 {
		t.Errorf("expected 23 data bits, got %d", p.BitCount())
	}
	if p.PadBits() != 1 {
		t.Errorf("expected 1 padding bit, got %d", p.PadBits())
	}

	expectPacked := []byte{0x6e, 0x8a, 0xdc}
	if actualPacked := p.Packed(); !bytes.Equal(expectPacked, actualPacked) {
		t.Errorf("wrong bitstream:\n\texpect: %#v\n\tactual: %#v", expectPacked, actualPacked)
	}
}

func TestEncoder_SingleSymbol(t *testing.T) {
	ct := NewCodeTable(BuildTree(CountFrequencies([]byte("aaaa"))))

	var e Encoder
	e.Init(ct)

	p := e.Encode([]byte("aaaa"))
	if p.BitCount() != 4 {
		t.Errorf("expected a 4 bit payload, got %d bits", p.BitCount())
	}
	if p.PadBits() != 4 {
		t.Errorf("expected 4 padding bits, got %d", p.PadBits())
	}

	expectPacked := []byte{0x00}
	if actualPacked := p.Packed(); !bytes.Equal(expectPacked, actualPacked) {
		t.Errorf("wrong bitstream:\n\texpect: %#v\n\tactual: %#v", expectPacked, actualPacked)
	}
}

func TestEncoder_Empty(t *testing.T) {
	var e Encoder
	e.Init(CodeTable{})

	p := e.Encode(nil)
	if p.SymbolCount() != 0 || p.BitCount() != 0 || p.PackedLen() != 0 {
		t.Errorf("expected an empty payload, got %d symbols, %d bits, %d bytes", p.SymbolCount(), p.BitCount(), p.PackedLen())
	}
	if p.PadBits() != 0 {
		t.Errorf("expected 0 padding bits, got %d", p.PadBits())
	}
}
