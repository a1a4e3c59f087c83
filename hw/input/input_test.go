package input

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestButtonsText(t *testing.T) {
	tests := []struct {
		text string
		want Buttons
	}{
		{"", 0},
		{"A", 0x01},
		{"A|Start", 0x09},
		{"right | up", 0x90},
		{"A|B|Select|Start|Up|Down|Left|Right", 0xFF},
	}
	for _, tt := range tests {
		var b Buttons
		if err := b.UnmarshalText([]byte(tt.text)); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", tt.text, err)
		}
		if b != tt.want {
			t.Errorf("UnmarshalText(%q) = %08b, want %08b", tt.text, b, tt.want)
		}
	}

	var b Buttons
	if err := b.UnmarshalText([]byte("A|Turbo")); err == nil {
		t.Errorf("UnmarshalText should fail on unknown button")
	}

	txt, _ := Buttons(0x09).MarshalText()
	if string(txt) != "A|Start" {
		t.Errorf("MarshalText = %q, want %q", txt, "A|Start")
	}
}

func TestButtonsPress(t *testing.T) {
	var b Buttons
	b.Press(PadStart)
	b.Press(PadLeft)
	if !b.Pressed(PadStart) || !b.Pressed(PadLeft) || b.Pressed(PadA) {
		t.Errorf("buttons = %v", b)
	}
	b.Release(PadStart)
	if b.Pressed(PadStart) {
		t.Errorf("Start should be released")
	}
	if PaddleButton(9).String() != "PaddleButton(9)" {
		t.Errorf("got %q", PaddleButton(9).String())
	}
}

const testScript = `
[[event]]
frame = 60
pad1 = "Start"

[[event]]
frame = 10
pad2 = "A"

[[event]]
frame = 62
pad1 = "A|Right"
pad2 = "B"

[[event]]
frame = 62
pad1 = "Right"

[[event]]
frame = 100
`

func TestScript(t *testing.T) {
	s, err := ParseScript(strings.NewReader(testScript))
	if err != nil {
		t.Fatal(err)
	}

	type state struct{ Pad1, Pad2 Buttons }
	tests := []struct {
		frame int64
		want  state
	}{
		{0, state{}},
		{9, state{}},
		{10, state{0, 0x01}},
		{59, state{0, 0x01}},
		{60, state{0x08, 0}},
		{61, state{0x08, 0}},
		{62, state{0x80, 0}},
		{99, state{0x80, 0}},
		{100, state{}},
		{1000, state{}},
	}
	for _, tt := range tests {
		p1, p2 := s.At(tt.frame)
		if diff := cmp.Diff(tt.want, state{p1, p2}); diff != "" {
			t.Errorf("At(%d) mismatch (-want +got):\n%s", tt.frame, diff)
		}
	}
	if s.Len() != 100 {
		t.Errorf("Len() = %d, want 100", s.Len())
	}
}

func TestScriptErrors(t *testing.T) {
	for _, script := range []string{
		"[[event]]\nframe = -1\n",
		"[[event]]\nframe = 1\npad1 = \"Z\"\n",
		"[[event\n",
	} {
		if _, err := ParseScript(strings.NewReader(script)); err == nil {
			t.Errorf("ParseScript(%q) should fail", script)
		}
	}
}
