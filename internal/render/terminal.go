// Package render draws an editor.Editor's current buffer to a raw
// terminal and decodes incoming bytes into key.Event values (spec §6's
// "a terminal frontend"). Grounded on golang.org/x/term for raw-mode
// setup/teardown (the one domain dependency in go.mod's stack with no
// existing caller before this package), and on
// internal/engine/line.Contents.DisplayWidth (already backed by
// rivo/uniseg) for column accounting, so wide and combining runes
// don't desync the cursor from what a real terminal renders.
package render

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/alefore/edge-sub003/internal/editor"
	"github.com/alefore/edge-sub003/internal/input/key"
)

// Terminal owns the raw-mode lifecycle of stdin/stdout and translates
// between terminal bytes and this editor's key.Event/screen model.
type Terminal struct {
	in       *os.File
	out      *bufio.Writer
	oldState *term.State
	reader   *bufio.Reader
}

// NewTerminal puts stdin into raw mode and returns a Terminal ready to
// read events and draw frames. Callers must call Close to restore the
// terminal on every exit path.
func NewTerminal() (*Terminal, error) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("render: failed to enter raw mode: %w", err)
	}
	return &Terminal{
		in:       os.Stdin,
		out:      bufio.NewWriter(os.Stdout),
		oldState: oldState,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// Close restores the terminal's original mode.
func (t *Terminal) Close() error {
	t.out.Flush()
	return term.Restore(int(t.in.Fd()), t.oldState)
}

// Size returns the terminal's current (rows, columns).
func (t *Terminal) Size() (rows, cols int, err error) {
	cols, rows, err = term.GetSize(int(t.in.Fd()))
	return rows, cols, err
}

// ReadEvent blocks for the next keystroke and decodes it into a
// key.Event, recognizing the common ANSI escape sequences for arrows,
// paging, and home/end; anything else decodes as a single rune (or a
// control character in ModCtrl form).
func (t *Terminal) ReadEvent() (key.Event, error) {
	r, _, err := t.reader.ReadRune()
	if err != nil {
		return key.Event{}, err
	}

	switch r {
	case 0x1b:
		return t.readEscapeSequence()
	case '\r', '\n':
		return key.NewSpecial(key.KeyEnter, key.ModNone), nil
	case '\t':
		return key.NewSpecial(key.KeyTab, key.ModNone), nil
	case 0x7f, 0x08:
		return key.NewSpecial(key.KeyBackspace, key.ModNone), nil
	}
	if r >= 1 && r <= 26 {
		// Ctrl-A..Ctrl-Z (Ctrl-I/Ctrl-M/Ctrl-H already handled above as
		// Tab/Enter/Backspace).
		return key.Event{Key: key.KeyRune, Rune: 'a' + r - 1, Modifiers: key.ModCtrl}, nil
	}
	return key.NewRune(r), nil
}

func (t *Terminal) readEscapeSequence() (key.Event, error) {
	if t.reader.Buffered() == 0 {
		// A lone ESC with nothing buffered behind it.
		return key.NewSpecial(key.KeyEscape, key.ModNone), nil
	}
	next, _, err := t.reader.ReadRune()
	if err != nil {
		return key.NewSpecial(key.KeyEscape, key.ModNone), nil
	}
	if next != '[' && next != 'O' {
		return key.NewSpecial(key.KeyEscape, key.ModNone), nil
	}

	code, _, err := t.reader.ReadRune()
	if err != nil {
		return key.Event{}, err
	}
	switch code {
	case 'A':
		return key.NewSpecial(key.KeyUp, key.ModNone), nil
	case 'B':
		return key.NewSpecial(key.KeyDown, key.ModNone), nil
	case 'C':
		return key.NewSpecial(key.KeyRight, key.ModNone), nil
	case 'D':
		return key.NewSpecial(key.KeyLeft, key.ModNone), nil
	case 'H':
		return key.NewSpecial(key.KeyHome, key.ModNone), nil
	case 'F':
		return key.NewSpecial(key.KeyEnd, key.ModNone), nil
	case '5', '6':
		// CSI 5 ~ (PageUp) / CSI 6 ~ (PageDown); consume the trailing '~'.
		tail, _, _ := t.reader.ReadRune()
		_ = tail
		if code == '5' {
			return key.NewSpecial(key.KeyPageUp, key.ModNone), nil
		}
		return key.NewSpecial(key.KeyPageDown, key.ModNone), nil
	case '3':
		tail, _, _ := t.reader.ReadRune()
		_ = tail
		return key.NewSpecial(key.KeyDelete, key.ModNone), nil
	}
	return key.NewSpecial(key.KeyEscape, key.ModNone), nil
}

// Draw renders e's current buffer as a scroll-to-cursor view filling
// the terminal, with the status line on the last row, matching
// original_source's single always-visible status line.
func (t *Terminal) Draw(e *editor.Editor) error {
	rows, cols, err := t.Size()
	if err != nil {
		return err
	}
	textRows := rows - 1
	if textRows < 1 {
		textRows = 1
	}

	buf := e.CurrentBuffer()
	io.WriteString(t.out, "\x1b[H")

	var firstLine, cursorRow, cursorCol int
	if buf != nil {
		active := buf.Cursors.Active()
		cur := active.Current()
		firstLine = cur.Line - textRows/2
		if firstLine < 0 {
			firstLine = 0
		}
		cursorRow = cur.Line - firstLine
		line := buf.Content.Get(cur.Line)
		cursorCol = line.Substring(0, cur.Column).DisplayWidth()
	}

	for row := 0; row < textRows; row++ {
		io.WriteString(t.out, "\x1b[K")
		lineNo := firstLine + row
		switch {
		case buf != nil && lineNo < buf.Content.Size():
			io.WriteString(t.out, truncateToWidth(buf.Content.Get(lineNo).String(), cols))
		case buf == nil:
		default:
			io.WriteString(t.out, "~")
		}
		io.WriteString(t.out, "\r\n")
	}

	io.WriteString(t.out, "\x1b[K\x1b[7m")
	_, status := e.Status()
	name := ""
	if buf != nil {
		name = buf.Name
		if buf.IsDirty() {
			name += " [+]"
		}
	}
	fmt.Fprintf(t.out, "%s", truncateToWidth(fmt.Sprintf("%s  %s", name, status), cols))
	io.WriteString(t.out, "\x1b[0m")

	fmt.Fprintf(t.out, "\x1b[%d;%dH", cursorRow+1, cursorCol+1)
	return t.out.Flush()
}

// truncateToWidth cuts s to at most width runes, avoiding a terminal's
// own line-wrap from desyncing the cursor math above.
func truncateToWidth(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width < 0 {
		width = 0
	}
	return string(r[:width])
}
