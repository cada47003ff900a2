package cache

import "math/bits"

// Fields is the decomposition of a flat byte address under a given
// cache geometry.
type Fields struct {
	// Tag identifies the memory block within its set.
	Tag uint64
	// Set is the index of the set the address maps to.
	Set int
	// Offset is the byte position within the block.
	Offset int
}

// Decompose splits addr into tag, set index and block offset.
// blockSize and numSets must be powers of two; Config.Validate checks
// this once at construction so the hot path stays shift/mask only.
func Decompose(addr uint64, blockSize, numSets int) Fields {
	offsetBits := log2(blockSize)
	indexBits := log2(numSets)

	return Fields{
		Tag:    addr >> (offsetBits + indexBits),
		Set:    int((addr >> offsetBits) & uint64(numSets-1)),
		Offset: int(addr & uint64(blockSize-1)),
	}
}

// BlockAlign rounds addr down to the start of its cache line.
func BlockAlign(addr uint64, blockSize int) uint64 {
	return addr &^ uint64(blockSize-1)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

func log2(n int) int {
	return bits.TrailingZeros(uint(n))
}
