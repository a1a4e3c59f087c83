package hwio

// Mirrored repeats a component over a wider window: an access at offset off
// of the mirrored range reaches the base component at off modulo the length
// of the base range. Mirrors can themselves be mirrored.
type Mirrored[A Addr] struct {
	base Component[A]
	rng  Range[A]

	rlen, wlen         int
	readable, writable bool
}

// Mirror returns a component exposing base over [start, end].
func Mirror[A Addr](base Component[A], start, end A) *Mirrored[A] {
	m := &Mirrored[A]{
		base: base,
		rng:  Range[A]{Start: start, End: end},
	}
	if r, ok := base.ReadRange(); ok {
		m.readable = true
		m.rlen = r.Len()
	}
	if w, ok := base.WriteRange(); ok {
		m.writable = true
		m.wlen = w.Len()
	}
	return m
}

func (m *Mirrored[A]) ReadRange() (Range[A], bool)  { return m.rng, m.readable }
func (m *Mirrored[A]) WriteRange() (Range[A], bool) { return m.rng, m.writable }

func (m *Mirrored[A]) Read8(addr A) uint8 {
	return m.base.Read8(A(int(addr) % m.rlen))
}

func (m *Mirrored[A]) Write8(addr A, val uint8) {
	m.base.Write8(A(int(addr)%m.wlen), val)
}

func (m *Mirrored[A]) Peek8(addr A) uint8 {
	if p, ok := m.base.(Peeker[A]); ok {
		return p.Peek8(A(int(addr) % m.rlen))
	}
	return 0
}
