package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// an InputDevice is a generic interface for NES input devices.
type InputDevice interface {
	// LoadState captures the current state of both input devices.
	LoadState() (uint8, uint8)
}

// InputPorts handles I/O with an InputDevice (such as standard NES controller
// for example).
//
// $4016 writes set the strobe. While strobe is high, the devices state is
// continuously reloaded; reads of $4016/$4017 shift the state out, one bit
// at a time.
type InputPorts struct {
	In  hwio.Reg8 // $4016
	Out hwio.Reg8 // $4017 (reads only, writes go to the APU frame counter)

	dev InputDevice

	prevStrobe, strobe bool     // to observe strobe falling edge.
	state              [2]uint8 // state shift registers.
}

func NewInputPorts() *InputPorts {
	ip := &InputPorts{}
	ip.In = hwio.Reg8{Name: "IN", Addr: 0x4016, ReadCb: ip.ReadIN, PeekCb: ip.PeekIN, WriteCb: ip.WriteIN}
	ip.Out = hwio.Reg8{Name: "OUT", Addr: 0x4017, Flags: hwio.ReadOnlyFlag, ReadCb: ip.ReadOUT, PeekCb: ip.PeekOUT}
	return ip
}

// Connect plugs dev into the ports. A nil device disconnects.
func (ip *InputPorts) Connect(dev InputDevice) {
	ip.dev = dev
}

func (ip *InputPorts) Reset() {
	ip.prevStrobe, ip.strobe = false, false
	ip.state = [2]uint8{}
}

func (ip *InputPorts) regval(port uint8) uint8 {
	if ip.dev == nil {
		return 0x40
	}
	ret := ip.state[port] & 1
	ip.state[port] >>= 1

	// After 8 bits are read, all subsequent bits will report 1 on a standard
	// NES controller, but third party and other controllers may report other
	// values here
	ip.state[port] |= 0x80

	// Emulate open bus behavior.
	return 0x40 | ret
}

// capture state of all connected input devices.
func (ip *InputPorts) loadstate() {
	if ip.dev == nil {
		// No controller is connected.
		ip.state[0] = 0x00
		ip.state[1] = 0x00
		return
	}

	ip.state[0], ip.state[1] = ip.dev.LoadState()
	log.ModInput.DebugZ("load state").Hex8("pad1", ip.state[0]).Hex8("pad2", ip.state[1]).End()
}

// In: $4016
func (ip *InputPorts) WriteIN(old, val uint8) {
	ip.prevStrobe = ip.strobe
	ip.strobe = val&1 == 1
	if ip.prevStrobe && !ip.strobe {
		ip.loadstate()
	}
}

func (ip *InputPorts) ReadIN(_ uint8) uint8 {
	if ip.strobe {
		ip.loadstate()
	}
	return ip.regval(0)
}

func (ip *InputPorts) PeekIN(_ uint8) uint8 {
	return 0x40 | ip.state[0]&1
}

// Out: $4017
func (ip *InputPorts) ReadOUT(_ uint8) uint8 {
	if ip.strobe {
		ip.loadstate()
	}
	return ip.regval(1)
}

func (ip *InputPorts) PeekOUT(_ uint8) uint8 {
	return 0x40 | ip.state[1]&1
}
