package hwio

// Device is a component that manages a whole range of a 16-bit bus through
// callbacks. Callbacks receive the address relative to Start.
type Device struct {
	Name  string // name of the device (for debugging)
	Start uint16 // first address of the device
	Size  int    // number of addresses covered
	Flags RWFlags

	ReadCb  func(addr uint16) uint8
	PeekCb  func(addr uint16) uint8
	WriteCb func(addr uint16, val uint8)
}

func (d *Device) rng() Range[uint16] {
	return Range[uint16]{Start: d.Start, End: d.Start + uint16(d.Size-1)}
}

func (d *Device) ReadRange() (Range[uint16], bool) {
	return d.rng(), d.Flags&WriteOnlyFlag == 0
}

func (d *Device) WriteRange() (Range[uint16], bool) {
	return d.rng(), d.Flags&ReadOnlyFlag == 0
}

func (d *Device) Read8(addr uint16) uint8 {
	if d.ReadCb == nil {
		return 0
	}
	return d.ReadCb(addr)
}

func (d *Device) Peek8(addr uint16) uint8 {
	if d.PeekCb != nil {
		return d.PeekCb(addr)
	}
	return 0
}

func (d *Device) Write8(addr uint16, val uint8) {
	if d.WriteCb != nil {
		d.WriteCb(addr, val)
	}
}
