package keyboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when the input is not an interactive terminal.
var ErrNotTerminal = errors.New("input is not a terminal")

const (
	pushKittyFlags = "\x1b[>11u"
	popKittyFlags  = "\x1b[<u"
	queryKitty     = "\x1b[?u"
	queryDevice    = "\x1b[c"
)

// Reader reads raw terminal input and emits keyboard events.
type Reader struct {
	in     *os.File
	out    io.Writer
	cr     cancelreader.CancelReader
	state  *term.State
	parser Parser
	now    func() time.Time
}

// Open puts in into raw mode, enables the kitty keyboard protocol on out and
// queries whether the terminal supports it.
func Open(in *os.File, out io.Writer) (*Reader, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	cr, err := cancelreader.NewReader(in)
	if err != nil {
		_ = term.Restore(fd, state)
		return nil, fmt.Errorf("failed to create input reader: %w", err)
	}
	r := &Reader{
		in:    in,
		out:   out,
		cr:    cr,
		state: state,
		now:   time.Now,
	}
	if _, err := io.WriteString(out, pushKittyFlags+queryKitty+queryDevice); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("failed to enable keyboard protocol: %w", err)
	}
	return r, nil
}

// Run reads input until Close is called, passing events to send in order.
// Events are stamped when their read returns, so all events parsed from one
// read share a timestamp. A press and release that arrive together measure a
// zero hold and key no symbol.
func (r *Reader) Run(send func(Event)) error {
	buf := make([]byte, 256)
	for {
		n, err := r.cr.Read(buf)
		at := r.now()
		if n > 0 {
			for _, ev := range r.parser.Feed(buf[:n], at) {
				send(ev)
			}
		}
		if err != nil {
			if errors.Is(err, cancelreader.ErrCanceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}
	}
}

// Close disables the keyboard protocol, stops Run and restores the terminal.
func (r *Reader) Close() error {
	var errs []error
	if _, err := io.WriteString(r.out, popKittyFlags); err != nil {
		errs = append(errs, fmt.Errorf("failed to disable keyboard protocol: %w", err))
	}
	r.cr.Cancel()
	if err := r.cr.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close input reader: %w", err))
	}
	if err := term.Restore(int(r.in.Fd()), r.state); err != nil {
		errs = append(errs, fmt.Errorf("failed to restore terminal: %w", err))
	}
	return errors.Join(errs...)
}
