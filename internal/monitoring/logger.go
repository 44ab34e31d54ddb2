package monitoring

import (
	"io"
	"log"
)

// Logf is the package-level diagnostic logger used by the command-line
// front end. It defaults to log.Printf but may be replaced by SetLogger or
// SetOutput. Tests can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetOutput points Logf at w with the given line prefix. A nil writer mutes
// logging.
func SetOutput(w io.Writer, prefix string) {
	if w == nil {
		SetLogger(nil)
		return
	}
	SetLogger(log.New(w, prefix, log.LstdFlags).Printf)
}
