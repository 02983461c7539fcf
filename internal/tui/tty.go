package tui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTTY returns true if we can use a TTY for interactive output
func IsTTY() bool {
	if !(isTerminal(os.Stdin) && isTerminal(os.Stdout)) {
		return false
	}
	// stdin and stdout can be terminals without a controlling tty (e.g. under some CI runners)
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// IsColorTerminal reports whether f is a terminal that should get ANSI colors
func IsColorTerminal(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(f)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
