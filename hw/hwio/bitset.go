package hwio

import "math/bits"

const (
	NumBits  = 0x10000            // 16-bit addressing space
	wordSize = 64                 // using 64-bit words
	numWords = NumBits / wordSize // 1024 words exactly
)

// Bitset is a set of 16-bit addresses. Zero value is an empty set.
type Bitset struct {
	words [numWords]uint64
}

// Set adds i to the set.
func (b *Bitset) Set(i uint) {
	b.words[i/wordSize] |= 1 << (i % wordSize)
}

// Test reports whether i is in the set.
func (b *Bitset) Test(i uint) bool {
	return (b.words[i/wordSize] & (1 << (i % wordSize))) != 0
}

// Count returns the number of elements in the set.
func (b *Bitset) Count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Reset empties the set.
func (b *Bitset) Reset() {
	clear(b.words[:])
}
