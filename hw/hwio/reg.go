package hwio

import (
	"fmt"
)

type RWFlags uint8

const (
	ReadWriteFlag RWFlags = 0
	ReadOnlyFlag  RWFlags = (1 << iota)
	WriteOnlyFlag
)

// Reg8 is a single 8-bit register mapped at Addr on a 16-bit bus.
//
// Bits set in RoMask are not affected by writes. A write-only register has
// no read range (so it does not drive the data bus on reads) and a
// read-only register has no write range.
type Reg8 struct {
	Name   string
	Addr   uint16
	Value  uint8
	RoMask uint8

	Flags   RWFlags
	ReadCb  func(val uint8) uint8
	PeekCb  func(val uint8) uint8
	WriteCb func(old uint8, val uint8)
}

func (reg *Reg8) String() string {
	s := fmt.Sprintf("%s{%02x", reg.Name, reg.Value)
	if reg.ReadCb != nil {
		s += ",r!"
	}
	if reg.PeekCb != nil {
		s += ",p!"
	}
	if reg.WriteCb != nil {
		s += ",w!"
	}
	return s + "}"
}

func (reg *Reg8) ReadRange() (Range[uint16], bool) {
	return Range[uint16]{Start: reg.Addr, End: reg.Addr}, reg.Flags&WriteOnlyFlag == 0
}

func (reg *Reg8) WriteRange() (Range[uint16], bool) {
	return Range[uint16]{Start: reg.Addr, End: reg.Addr}, reg.Flags&ReadOnlyFlag == 0
}

func (reg *Reg8) Write8(_ uint16, val uint8) {
	old := reg.Value
	reg.Value = (reg.Value & reg.RoMask) | (val &^ reg.RoMask)
	if reg.WriteCb != nil {
		reg.WriteCb(old, reg.Value)
	}
}

func (reg *Reg8) Read8(_ uint16) uint8 {
	if reg.ReadCb != nil {
		return reg.ReadCb(reg.Value)
	}
	return reg.Value
}

func (reg *Reg8) Peek8(_ uint16) uint8 {
	if reg.PeekCb != nil {
		return reg.PeekCb(reg.Value)
	}
	return reg.Value
}

func (reg *Reg8) GetBit(n uint) bool { return GetBit(reg.Value, n) }
func (reg *Reg8) SetBit(n uint)      { SetBit(&reg.Value, n) }
func (reg *Reg8) ClearBit(n uint)    { ClearBit(&reg.Value, n) }
