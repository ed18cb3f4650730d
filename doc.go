// Package huffpack implements whole-buffer Huffman compression.  A byte
// buffer is scanned for symbol frequencies, and an optimal prefix-free code
// built from those frequencies re-expresses the buffer as a packed
// bitstream bundled with everything needed to reverse the transformation.
//
// The pipeline is available as a pair of one-shot calls:
//
//	payload := huffpack.Compress(data)
//	data, err := huffpack.Decompress(payload)
//
// and as individual stages (CountFrequencies, BuildTree, NewCodeTable,
// Encoder, Decoder) for callers that want to reuse a code table or inspect
// intermediate results.  Payload serializes with WriteTo and ReadFrom, or
// through encoding.BinaryMarshaler.
//
// References:
//
//	<https://en.wikipedia.org/wiki/Huffman_coding>
package huffpack
