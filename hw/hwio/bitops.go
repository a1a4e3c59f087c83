package hwio

// Word is the set of register types the bit helpers operate on.
type Word interface {
	~uint8 | ~uint16 | ~uint32
}

func GetBit[T Word](v T, n uint) bool {
	return GetBiti(v, n) != 0
}

func GetBiti[T Word](v T, n uint) T {
	return v >> n & 0x01
}

func SetBit[T Word](v *T, n uint) {
	*v |= 1 << n
}

func ClearBit[T Word](v *T, n uint) {
	*v &^= 1 << n
}

func ClearBits[T Word](v *T, mask T) {
	*v &^= mask
}

// SetBitTo sets bit n of v if cond is true, clears it otherwise.
func SetBitTo[T Word](v *T, n uint, cond bool) {
	if cond {
		SetBit(v, n)
	} else {
		ClearBit(v, n)
	}
}
