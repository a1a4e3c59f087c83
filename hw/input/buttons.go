package input

import (
	"fmt"
	"strings"
)

//go:generate stringer -type=PaddleButton -trimprefix=Pad

// A PaddleButton identifies a button of a standard NES controller/paddle.
// Its value is the position of the button in the controller shift register.
type PaddleButton byte

const (
	PadA PaddleButton = iota
	PadB
	PadSelect
	PadStart
	PadUp
	PadDown
	PadLeft
	PadRight
)

// NumButtons is the number of buttons of a standard controller.
const NumButtons = 8

// Buttons is the state of a standard controller, one bit per button (set
// when pressed), in the order they're shifted out of $4016/$4017.
type Buttons uint8

// Pressed reports whether btn is pressed.
func (b Buttons) Pressed(btn PaddleButton) bool {
	return b&(1<<btn) != 0
}

// Press marks btn as pressed.
func (b *Buttons) Press(btn PaddleButton) {
	*b |= 1 << btn
}

// Release marks btn as released.
func (b *Buttons) Release(btn PaddleButton) {
	*b &^= 1 << btn
}

func (b Buttons) String() string {
	var names []string
	for btn := range PaddleButton(NumButtons) {
		if b.Pressed(btn) {
			names = append(names, btn.String())
		}
	}
	return strings.Join(names, "|")
}

// ParseButton returns the button with the given name (case insensitive).
func ParseButton(name string) (PaddleButton, error) {
	for btn := range PaddleButton(NumButtons) {
		if strings.EqualFold(btn.String(), name) {
			return btn, nil
		}
	}
	return 0, fmt.Errorf("unrecognized button %q", name)
}

// MarshalText encodes the pressed buttons as their names separated by '|',
// for example "A|Start". No button pressed is the empty string.
func (b Buttons) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Buttons) UnmarshalText(text []byte) error {
	var state Buttons
	s := strings.TrimSpace(string(text))
	if s != "" {
		for name := range strings.SplitSeq(s, "|") {
			btn, err := ParseButton(strings.TrimSpace(name))
			if err != nil {
				return err
			}
			state.Press(btn)
		}
	}
	*b = state
	return nil
}
