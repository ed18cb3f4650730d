package huffpack

import (
	"math"
)

// Symbol represents a single byte of the input alphabet.
type Symbol byte

// MaxSymbol is the maximum valid symbol.
const MaxSymbol = Symbol(math.MaxUint8)

// NumSymbols is the number of distinct Symbols in the alphabet.
const NumSymbols = int(MaxSymbol) + 1

// FrequencyTable records the number of occurrences of each Symbol in some
// input buffer.  Symbols that never occur are absent from the table.
type FrequencyTable map[Symbol]uint64

// CountFrequencies tallies the occurrences of each distinct byte value in
// data.  An empty input produces an empty table.
func CountFrequencies(data []byte) FrequencyTable {
	var counts [NumSymbols]uint64
	for _, value := range data {
		counts[value]++
	}

	ft := make(FrequencyTable)
	for value, count := range counts {
		if count != 0 {
			ft[Symbol(value)] = count
		}
	}
	return ft
}

// Total returns the sum of all frequencies in the table, which is the length
// of the buffer the table was counted from.
func (ft FrequencyTable) Total() uint64 {
	var sum uint64
	for _, count := range ft {
		sum += count
	}
	return sum
}

// Distinct returns the number of distinct Symbols in the table.
func (ft FrequencyTable) Distinct() int {
	return len(ft)
}
