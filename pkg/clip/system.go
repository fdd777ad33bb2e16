package clip

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned by the clipboard None.
var ErrUnavailable = errors.New("clipboard unavailable")

// Clipboard reads and writes plain text.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// System returns the operating system clipboard (pbcopy/pbpaste on macOS,
// xclip, xsel or wl-clipboard on Linux, the Win32 API on Windows).
func System() Clipboard {
	return systemClipboard{}
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Unsupported reports whether the system clipboard has no backend on this
// machine (for example a Linux host without xclip, xsel or wl-copy).
func Unsupported() bool {
	return clipboard.Unsupported
}

// None returns a clipboard that fails every call with ErrUnavailable.
func None() Clipboard {
	return noClipboard{}
}

type noClipboard struct{}

func (noClipboard) ReadAll() (string, error) { return "", ErrUnavailable }

func (noClipboard) WriteAll(string) error { return ErrUnavailable }

// Memory is an in-process clipboard.
type Memory struct {
	Text string
}

// ReadAll returns the stored text.
func (m *Memory) ReadAll() (string, error) { return m.Text, nil }

// WriteAll replaces the stored text.
func (m *Memory) WriteAll(text string) error {
	m.Text = text
	return nil
}
