// Package tape implements the on-disk layout of digitized tape captures:
// sample blocks, the fixed channel permutation, the header record and a
// block-granular seekable input stream.
package tape

import (
	"encoding/binary"
)

// SampleBlock is one synchronous acquisition instant across all 16 physical
// channels of a tape, indexed by storage slot (not by logical channel).
type SampleBlock [Channels]int16

// DecodeBlock decodes a little-endian block. src must hold at least BlockSize bytes.
func DecodeBlock(src []byte) SampleBlock {
	var b SampleBlock
	_ = src[BlockSize-1]
	for i := range b {
		b[i] = int16(binary.LittleEndian.Uint16(src[i*BytesPerSample:]))
	}
	return b
}

// Encode writes the block into dst in little-endian order.
// dst must hold at least BlockSize bytes.
func (b *SampleBlock) Encode(dst []byte) {
	_ = dst[BlockSize-1]
	for i, v := range b {
		binary.LittleEndian.PutUint16(dst[i*BytesPerSample:], uint16(v))
	}
}

// Channel returns the sample of a logical channel (1..16).
func (b SampleBlock) Channel(channel int) int16 {
	return b[StorageIndex(channel)]
}

// SetChannel stores the sample of a logical channel (1..16).
func (b *SampleBlock) SetChannel(channel int, v int16) {
	b[StorageIndex(channel)] = v
}

// BlockIndex converts an absolute byte offset into a block number counted
// from the first block after the header.
func BlockIndex(offset int64) int64 {
	return (offset - HeaderSize) / BlockSize
}

// BlockOffset is the inverse of BlockIndex.
func BlockOffset(block int64) int64 {
	return HeaderSize + block*BlockSize
}
