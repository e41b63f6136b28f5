package clipboard

import (
	"fmt"
	"io"
	"os"
	"strings"

	sysclip "github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/hashicorp/go-multierror"

	"github.com/devbush/yt2transcript/internal/domain"
	"github.com/devbush/yt2transcript/internal/ports"
)

// Clipboard modes accepted by New
const (
	ModeAuto   = "auto"
	ModeSystem = "system"
	ModeOSC52  = "osc52"
)

// System writes to the OS clipboard (pbcopy, xclip, wl-copy, win32)
type System struct{}

// WriteText implements ports.Clipboard
func (System) WriteText(text string) error {
	if sysclip.Unsupported {
		return domain.ErrClipboardUnavailable
	}
	if err := sysclip.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrClipboardUnavailable, err)
	}
	return nil
}

// Terminal asks the terminal emulator to set the clipboard with an
// OSC 52 escape sequence. Works over SSH.
type Terminal struct {
	Out    io.Writer
	Getenv func(string) string
}

// WriteText implements ports.Clipboard
func (t Terminal) WriteText(text string) error {
	if t.Out == nil {
		return domain.ErrClipboardUnavailable
	}
	getenv := t.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	seq := osc52.New(text)
	switch {
	case getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(getenv("TERM"), "screen"):
		seq = seq.Screen()
	}

	if _, err := seq.WriteTo(t.Out); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrClipboardUnavailable, err)
	}
	return nil
}

// Chain tries each clipboard in order and stops at the first success
type Chain []ports.Clipboard

// WriteText implements ports.Clipboard
func (c Chain) WriteText(text string) error {
	var result *multierror.Error
	for _, cb := range c {
		err := cb.WriteText(text)
		if err == nil {
			return nil
		}
		result = multierror.Append(result, err)
	}
	if result == nil {
		return domain.ErrClipboardUnavailable
	}
	return result
}

// New builds the clipboard for a mode. out receives OSC 52 sequences.
func New(mode string, out io.Writer) (ports.Clipboard, error) {
	switch mode {
	case "", ModeAuto:
		return Chain{System{}, Terminal{Out: out}}, nil
	case ModeSystem:
		return System{}, nil
	case ModeOSC52:
		return Terminal{Out: out}, nil
	default:
		return nil, fmt.Errorf("unknown clipboard mode: %s", mode)
	}
}

var (
	_ ports.Clipboard = System{}
	_ ports.Clipboard = Terminal{}
	_ ports.Clipboard = Chain{}
)
