package input

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
)

// An Event changes the state of both controllers at a given frame. The state
// is held until the next event.
//
// In a script file, events are toml tables:
//
//	[[event]]
//	frame = 120
//	pad1 = "Start"
//
//	[[event]]
//	frame = 125
//	pad1 = "A|Right"
type Event struct {
	Frame int64   `toml:"frame"`
	Pad1  Buttons `toml:"pad1"`
	Pad2  Buttons `toml:"pad2"`
}

// A Script is a sequence of controller events, sorted by frame.
type Script struct {
	Events []Event `toml:"event"`
}

// ParseScript decodes a toml input script.
func ParseScript(r io.Reader) (*Script, error) {
	var s Script
	if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("input script: %w", err)
	}
	for _, ev := range s.Events {
		if ev.Frame < 0 {
			return nil, fmt.Errorf("input script: negative frame %d", ev.Frame)
		}
	}
	slices.SortStableFunc(s.Events, func(a, b Event) int {
		return cmp.Compare(a.Frame, b.Frame)
	})
	return &s, nil
}

// LoadScript reads and decodes the input script at path.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseScript(f)
}

// At returns the state of both controllers at the given frame.
func (s *Script) At(frame int64) (pad1, pad2 Buttons) {
	i, found := slices.BinarySearchFunc(s.Events, frame, func(ev Event, frame int64) int {
		return cmp.Compare(ev.Frame, frame)
	})
	if found {
		// Several events may target the same frame, the last one wins.
		for i+1 < len(s.Events) && s.Events[i+1].Frame == frame {
			i++
		}
		return s.Events[i].Pad1, s.Events[i].Pad2
	}
	if i == 0 {
		return 0, 0
	}
	return s.Events[i-1].Pad1, s.Events[i-1].Pad2
}

// Len returns the frame of the last event.
func (s *Script) Len() int64 {
	if len(s.Events) == 0 {
		return 0
	}
	return s.Events[len(s.Events)-1].Frame
}
