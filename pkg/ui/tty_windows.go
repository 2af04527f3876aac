//go:build windows

package ui

import (
	"io"
	"os"
)

// OpenTTY opens the console input buffer.
func OpenTTY() (io.ReadWriteCloser, error) {
	return os.OpenFile("CONIN$", os.O_RDWR, 0)
}
