package logging

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New returns the CLI logger. With debug enabled it appends to debug.log
// under dir; otherwise it is a no-op, since writing to stderr would corrupt
// the terminal UI.
func New(dir string, debug bool) zerolog.Logger {
	if !debug {
		return zerolog.Nop()
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return zerolog.Nop()
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return zerolog.Nop()
	}

	return zerolog.New(f).With().Timestamp().Logger()
}
