package huffpack

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestRoundTrip(t *testing.T) {
	type testRow struct {
		name string
		data []byte
	}

	testData := []testRow{
		{name: "Empty", data: nil},
		{name: "OneByte", data: []byte("a")},
		{name: "OneSymbolRun", data: []byte("aaaa")},
		{name: "Abracadabra", data: []byte("abracadabra")},
		{name: "Telemetry", data: []byte("TEMP:25.5C,TEMP:25.5C")},
		{name: "AllByteValues", data: allByteValues()},
		{name: "Random", data: randomBytes(4096)},
	}
	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			p := Compress(row.data)
			if p.SymbolCount() != uint64(len(row.data)) {
				t.Errorf("expected %d symbols, got %d", len(row.data), p.SymbolCount())
			}

			direct, err := Decompress(p)
			if err != nil {
				t.Fatalf("Decompress failed: %v", err)
			}
			if !bytes.Equal(row.data, direct) {
				t.Errorf("wrong output:\n\texpect: %q\n\tactual: %q", row.data, direct)
			}

			raw, err := p.MarshalBinary()
			if err != nil {
				t.Fatalf("MarshalBinary failed: %v", err)
			}

			var q Payload
			if err := q.UnmarshalBinary(raw); err != nil {
				t.Fatalf("UnmarshalBinary failed: %v", err)
			}
			actual, err := Decompress(&q)
			if err != nil {
				t.Fatalf("Decompress failed: %v", err)
			}
			if !bytes.Equal(row.data, actual) {
				t.Errorf("wrong output:\n\texpect: %q\n\tactual: %q", row.data, actual)
			}
		})
	}
}

func TestCompress_Deterministic(t *testing.T) {
	data := []byte("TEMP:25.5C,TEMP:25.5C")

	a, err := Compress(data).MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	b, err := Compress(data).MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two compressions of the same input produced different payloads")
	}
}

func TestCompress_PrefixFree(t *testing.T) {
	codes := Compress(append(randomBytes(4096), allByteValues()...)).Codes()
	if len(codes) != NumSymbols {
		t.Fatalf("expected %d codewords, got %d", NumSymbols, len(codes))
	}

	for aSym, aCode := range codes {
		for bSym, bCode := range codes {
			if aSym == bSym {
				continue
			}
			if aCode == bCode {
				t.Errorf("symbols %d and %d share the codeword %s", aSym, bSym, aCode)
			}
			if aCode.IsPrefixOf(bCode) {
				t.Errorf("codeword %s of symbol %d is a prefix of codeword %s of symbol %d", aCode, aSym, bCode, bSym)
			}
		}
	}
}

func TestCompress_DominantSymbol(t *testing.T) {
	// 'x' accounts for more than half of the input, so its codeword is a
	// single bit.
	data := append(bytes.Repeat([]byte("x"), 100), []byte("abcdefgh")...)

	if hc := Compress(data).Codes()['x']; hc.Size != 1 {
		t.Errorf("expected a 1 bit codeword for the dominant symbol, got %s", hc)
	}
}

func TestCompress_TelemetryBudget(t *testing.T) {
	data := []byte("TEMP:25.5C,TEMP:25.5C")
	p := Compress(data)

	if p.BitCount() >= 176 {
		t.Errorf("expected fewer than 176 data bits, got %d", p.BitCount())
	}
	if p.PackedLen() >= len(data) {
		t.Errorf("expected the bitstream to be smaller than the input, got %d bytes", p.PackedLen())
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("a"))
	f.Add([]byte("aaaa"))
	f.Add([]byte("abracadabra"))
	f.Add([]byte("TEMP:25.5C,TEMP:25.5C"))
	f.Add(allByteValues())

	f.Fuzz(func(t *testing.T, data []byte) {
		p := Compress(data)
		raw, err := p.MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary failed: %v", err)
		}

		var q Payload
		if err := q.UnmarshalBinary(raw); err != nil {
			t.Fatalf("UnmarshalBinary failed: %v", err)
		}
		actual, err := Decompress(&q)
		if err != nil {
			t.Fatalf("Decompress failed: %v", err)
		}
		if !bytes.Equal(data, actual) {
			t.Errorf("wrong output:\n\texpect: %q\n\tactual: %q", data, actual)
		}
	})
}

func FuzzUnmarshalBinary(f *testing.F) {
	seed, err := Compress([]byte("abracadabra")).MarshalBinary()
	if err != nil {
		f.Fatalf("MarshalBinary failed: %v", err)
	}
	f.Add(seed)
	f.Add([]byte{})
	f.Add([]byte{0x01})

	f.Fuzz(func(t *testing.T, raw []byte) {
		var p Payload
		if err := p.UnmarshalBinary(raw); err != nil {
			if !IsMalformedPayload(err) {
				t.Errorf("expected a malformed payload error, got %v", err)
			}
			return
		}

		data, err := Decompress(&p)
		if err != nil {
			if !IsMalformedPayload(err) {
				t.Errorf("expected a malformed payload error, got %v", err)
			}
			return
		}
		if uint64(len(data)) != p.SymbolCount() {
			t.Errorf("expected %d symbols, got %d", p.SymbolCount(), len(data))
		}
	})
}

func TestIsMalformedPayload(t *testing.T) {
	for _, err := range []error{ErrInvalidCodeTable, ErrTruncatedPayload, ErrCorruptPayload, ErrBadVersion} {
		if !IsMalformedPayload(fmt.Errorf("%w: detail", err)) {
			t.Errorf("expected true for %v", err)
		}
	}
	if IsMalformedPayload(nil) {
		t.Error("expected false for nil")
	}
	if IsMalformedPayload(errors.New("unrelated")) {
		t.Error("expected false for an unrelated error")
	}
}

func allByteValues() []byte {
	data := make([]byte, NumSymbols)
	for i := range data {
		data[i] = byte(i)
	}
	return data
}

func randomBytes(n int) []byte {
	rng := rand.New(rand.NewSource(0x1234))
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(rng.Intn(256))
	}
	return data
}

func benchmarkCorpus() []byte {
	var buf bytes.Buffer
	for i := 0; i < 512; i++ {
		fmt.Fprintf(&buf, "TEMP:%d.%dC,HUM:%d%%,PRES:%d.%dhPa\n", 20+i%10, i%10, 30+i%40, 990+i%30, i%10)
	}
	return buf.Bytes()
}

func BenchmarkCompress(b *testing.B) {
	data := benchmarkCorpus()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()

	var p *Payload
	for i := 0; i < b.N; i++ {
		p = Compress(data)
	}
	b.StopTimer()

	raw, err := p.MarshalBinary()
	if err != nil {
		b.Fatalf("MarshalBinary failed: %v", err)
	}
	b.ReportMetric(float64(len(raw))/float64(len(data)), "ratio")
}

func BenchmarkDecompress(b *testing.B) {
	data := benchmarkCorpus()
	p := Compress(data)
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Decompress(p); err != nil {
			b.Fatalf("Decompress failed: %v", err)
		}
	}
}

// BenchmarkZstd compresses the same corpus with zstd, as a baseline to
// compare ratios against.
func BenchmarkZstd(b *testing.B) {
	data := benchmarkCorpus()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()

	var compressed []byte
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		enc, err := zstd.NewWriter(&buf)
		if err != nil {
			b.Fatalf("zstd.NewWriter failed: %v", err)
		}
		if _, err := enc.Write(data); err != nil {
			b.Fatalf("Write failed: %v", err)
		}
		if err := enc.Close(); err != nil {
			b.Fatalf("Close failed: %v", err)
		}
		compressed = buf.Bytes()
	}
	b.StopTimer()
	b.ReportMetric(float64(len(compressed))/float64(len(data)), "ratio")
}
