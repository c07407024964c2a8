package tui

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/chzyer/readline"

	"namaz-cli/internal/logging"
)

// Key actions understood by the countdown screen.
const (
	keyCtrlC = 0x03
	keyCtrlD = 0x04
)

// KeyHandler reacts to single key presses.
type KeyHandler struct {
	renderer *Renderer
	quit     func()
	redraw   func()
}

// NewKeyHandler routes 'f' to the renderer and 'q'/Ctrl-C to quit. redraw
// may be nil; it is called after a visible change.
func NewKeyHandler(renderer *Renderer, quit, redraw func()) *KeyHandler {
	return &KeyHandler{renderer: renderer, quit: quit, redraw: redraw}
}

// Handle processes one byte of input and reports whether the loop should stop.
func (k *KeyHandler) Handle(b byte) bool {
	switch b {
	case 'f', 'F':
		font := k.renderer.NextFont()
		logging.Debugf("font switched to %s", font)
		if k.redraw != nil {
			k.redraw()
		}
	case 'q', 'Q', keyCtrlC, keyCtrlD:
		k.quit()
		return true
	}
	return false
}

// Run reads r byte by byte until ctx ends, input closes or quit is requested.
func (k *KeyHandler) Run(ctx context.Context, r io.Reader) {
	buf := make([]byte, 1)
	for ctx.Err() == nil {
		n, err := r.Read(buf)
		if err != nil {
			return
		}
		if n == 1 && k.Handle(buf[0]) {
			return
		}
	}
}

// WatchStdin puts the terminal in raw mode and feeds key presses to k. It
// returns a restore function; on non-terminals it does nothing.
func WatchStdin(ctx context.Context, k *KeyHandler) (restore func()) {
	fd := int(os.Stdin.Fd())
	if !readline.IsTerminal(fd) {
		return func() {}
	}
	state, err := readline.MakeRaw(fd)
	if err != nil {
		logging.Warnf("raw terminal mode unavailable: %v", err)
		return func() {}
	}
	go k.Run(ctx, os.Stdin)
	return func() {
		if err := readline.Restore(fd, state); err != nil {
			logging.Warnf("restore terminal: %v", err)
		}
	}
}

type crlfWriter struct {
	w io.Writer
}

// NewRawWriter translates "\n" to "\r\n" for terminals in raw mode.
func NewRawWriter(w io.Writer) io.Writer {
	return crlfWriter{w: w}
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
