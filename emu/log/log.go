package log

import (
	"io"
	"os"

	"golang.org/x/term"
	"gopkg.in/Sirupsen/logrus.v0"
)

// Level follows logrus ordering: lower is more severe.
type Level uint8

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

var disabled bool

func init() {
	logrus.SetLevel(logrus.DebugLevel)
	SetOutput(os.Stderr)
}

// SetOutput redirects all log output to w. Colors are only enabled when w is
// a terminal.
func SetOutput(w io.Writer) {
	colors := false
	if f, ok := w.(*os.File); ok {
		colors = term.IsTerminal(int(f.Fd()))
	}
	logrus.SetOutput(w)
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:   colors,
		DisableColors: !colors,
	})
}

// Disable turns off all logging, whatever the module and level.
func Disable() {
	disabled = true
	logrus.SetOutput(io.Discard)
}
