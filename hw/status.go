package hw

// P is the processor status register.
type P uint8

const (
	Carry = 1 << iota
	Zero
	Interrupt
	Decimal
	Break
	Reserved
	Overflow
	Negative
)

func (p P) String() string {
	const bits = "nvubdizcNVUBDIZC"

	s := make([]byte, 8)
	for i := range 8 {
		ibit := (uint8(p) & (1 << (7 - i))) >> (7 - i)
		s[i] = bits[i+int(8*ibit)]
	}
	return string(s)
}

func (p P) C() bool { return p&Carry != 0 }
func (p P) Z() bool { return p&Zero != 0 }
func (p P) I() bool { return p&Interrupt != 0 }
func (p P) D() bool { return p&Decimal != 0 }
func (p P) B() bool { return p&Break != 0 }
func (p P) U() bool { return p&Reserved != 0 }
func (p P) V() bool { return p&Overflow != 0 }
func (p P) N() bool { return p&Negative != 0 }

func (p *P) setFlags(flags uint8) {
	*p |= P(flags)
}

func (p *P) clearFlags(flags uint8) {
	*p &^= P(flags)
}

func (p *P) setFlag(flag uint8, on bool) {
	if on {
		p.setFlags(flag)
	} else {
		p.clearFlags(flag)
	}
}

// carry returns 1 if the carry flag is set, 0 otherwise.
func (p P) carry() uint8 {
	return uint8(p & Carry)
}

// checkNZ sets N and Z according to v.
func (p *P) checkNZ(v uint8) {
	p.setFlag(Negative, v&0x80 != 0)
	p.setFlag(Zero, v == 0)
}
