package hwio

import "testing"

func hasPanicked(f func()) (yes bool, msg any) {
	defer func() {
		msg = recover()
		if msg != nil {
			yes = true
		}
	}()
	f()
	return yes, msg
}

func wantRead8[A Addr](t *testing.T, b *Bus[A], addr A, want uint8) {
	t.Helper()

	if got := b.Read8(addr); got != want {
		t.Errorf("Read8(%04X) = %02X, want %02X", uint32(addr), got, want)
	}
}

// fixed is a component always returning the same value.
type fixed struct {
	rng     Range[uint16]
	val     uint8
	lastoff uint16
	writes  int
}

func (f *fixed) ReadRange() (Range[uint16], bool)  { return f.rng, true }
func (f *fixed) WriteRange() (Range[uint16], bool) { return f.rng, true }
func (f *fixed) Read8(addr uint16) uint8 {
	f.lastoff = addr
	return f.val
}
func (f *fixed) Write8(addr uint16, _ uint8) {
	f.lastoff = addr
	f.writes++
}
