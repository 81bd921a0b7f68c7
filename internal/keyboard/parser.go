// Package keyboard reads space-bar keying from a raw terminal.
//
// Terminals normally report key presses only. The reader enables the kitty
// keyboard protocol (flags: disambiguate, report event types, report all keys
// as escape codes) so that releases arrive as CSI u sequences. When the
// terminal answers the device attributes query without a kitty reply, keying
// falls back to toggle mode: each space byte flips the key state.
package keyboard

import (
	"bytes"
	"strconv"
	"time"
)

// Kind identifies a keyboard event.
type Kind int

// Event kinds.
const (
	KeyDown Kind = iota
	KeyUp
	Clear
	Decode
	Quit
	ProtocolDetected
	ProtocolMissing
)

// String returns the human-readable name of the event kind.
func (k Kind) String() string {
	switch k {
	case KeyDown:
		return "key-down"
	case KeyUp:
		return "key-up"
	case Clear:
		return "clear"
	case Decode:
		return "decode"
	case Quit:
		return "quit"
	case ProtocolDetected:
		return "protocol-detected"
	case ProtocolMissing:
		return "protocol-missing"
	default:
		return "unknown"
	}
}

// Event is a keyboard event stamped with the time its bytes were read.
type Event struct {
	Kind Kind
	At   time.Time
}

// kitty key event types.
const (
	eventPress   = 1
	eventRepeat  = 2
	eventRelease = 3
)

const (
	keySpace     = 32
	keyEnter     = 13
	keyEscape    = 27
	keyBackspace = 127
	modCtrl      = 4
	maxPending   = 64
)

// Parser turns terminal input into events. The zero value is ready to use.
type Parser struct {
	pending []byte
	kitty   bool
	legacy  bool
	down    bool
}

// Kitty reports whether the terminal acknowledged the kitty protocol.
func (p *Parser) Kitty() bool {
	return p.kitty
}

// Down reports whether the key is currently held.
func (p *Parser) Down() bool {
	return p.down
}

// Feed parses a chunk of input. Incomplete escape sequences are kept until the
// next call. Once the terminal is known to lack the kitty protocol, an Esc that
// ends the chunk is a key press and quits, since legacy terminals write each
// escape sequence in one piece.
func (p *Parser) Feed(chunk []byte, at time.Time) []Event {
	buf := append(p.pending, chunk...)
	p.pending = nil

	var events []Event
	for i := 0; i < len(buf); {
		b := buf[i]
		if b != 0x1b {
			events = p.handleByte(b, at, events)
			i++
			continue
		}
		if i+1 >= len(buf) {
			if p.legacy && !p.kitty {
				events = append(events, Event{Kind: Quit, At: at})
				break
			}
			p.keep(buf[i:])
			break
		}
		if buf[i+1] != '[' {
			// Alt+key: the key byte is dropped unless it keys or commands.
			if isKeyByte(buf[i+1]) {
				i++
			} else {
				i += 2
			}
			continue
		}
		j := i + 2
		for j < len(buf) && (buf[j] < 0x40 || buf[j] > 0x7e) {
			j++
		}
		if j >= len(buf) {
			p.keep(buf[i:])
			break
		}
		events = p.handleCSI(buf[i+2:j], buf[j], at, events)
		i = j + 1
	}
	return events
}

func (p *Parser) keep(rest []byte) {
	if len(rest) > maxPending {
		return
	}
	p.pending = append([]byte(nil), rest...)
}

func (p *Parser) handleByte(b byte, at time.Time, events []Event) []Event {
	switch b {
	case ' ':
		return p.toggle(at, events)
	case 'c', 'C', 0x7f, 0x08:
		return append(events, Event{Kind: Clear, At: at})
	case 'd', 'D', '\r', '\n':
		return append(events, Event{Kind: Decode, At: at})
	case 'q', 'Q', 0x03:
		return append(events, Event{Kind: Quit, At: at})
	default:
		return events
	}
}

func isKeyByte(b byte) bool {
	switch b {
	case ' ', 0x1b, 'c', 'C', 0x7f, 0x08, 'd', 'D', '\r', '\n', 'q', 'Q', 0x03:
		return true
	default:
		return false
	}
}

func (p *Parser) toggle(at time.Time, events []Event) []Event {
	if p.down {
		p.down = false
		return append(events, Event{Kind: KeyUp, At: at})
	}
	p.down = true
	return append(events, Event{Kind: KeyDown, At: at})
}

func (p *Parser) handleCSI(params []byte, final byte, at time.Time, events []Event) []Event {
	private := len(params) > 0 && params[0] == '?'
	switch {
	case final == 'u' && private:
		if p.kitty {
			return events
		}
		p.kitty = true
		return append(events, Event{Kind: ProtocolDetected, At: at})
	case final == 'c' && private:
		if p.kitty || p.legacy {
			return events
		}
		p.legacy = true
		return append(events, Event{Kind: ProtocolMissing, At: at})
	case final == 'u':
		return p.handleKey(params, at, events)
	default:
		return events
	}
}

// handleKey parses "code[:alternates][;mods[:type][;text]]".
func (p *Parser) handleKey(params []byte, at time.Time, events []Event) []Event {
	fields := bytes.Split(params, []byte(";"))
	code, ok := leadingInt(fields[0], -1)
	if !ok {
		return events
	}
	mods, typ := 1, eventPress
	if len(fields) > 1 {
		sub := bytes.Split(fields[1], []byte(":"))
		mods, _ = leadingInt(sub[0], 1)
		if len(sub) > 1 {
			typ, _ = leadingInt(sub[1], eventPress)
		}
	}
	ctrl := (mods-1)&modCtrl != 0

	if code == keySpace {
		switch typ {
		case eventPress:
			if p.down {
				return events
			}
			p.down = true
			return append(events, Event{Kind: KeyDown, At: at})
		case eventRelease:
			if !p.down {
				return events
			}
			p.down = false
			return append(events, Event{Kind: KeyUp, At: at})
		default:
			return events
		}
	}
	if typ != eventPress {
		return events
	}
	switch {
	case ctrl && code == 'c':
		return append(events, Event{Kind: Quit, At: at})
	case ctrl:
		return events
	case code == 'c' || code == keyBackspace:
		return append(events, Event{Kind: Clear, At: at})
	case code == 'd' || code == keyEnter:
		return append(events, Event{Kind: Decode, At: at})
	case code == 'q' || code == keyEscape:
		return append(events, Event{Kind: Quit, At: at})
	default:
		return events
	}
}

func leadingInt(field []byte, fallback int) (int, bool) {
	if i := bytes.IndexByte(field, ':'); i >= 0 {
		field = field[:i]
	}
	if len(field) == 0 {
		return fallback, true
	}
	n, err := strconv.Atoi(string(field))
	if err != nil {
		return fallback, false
	}
	return n, true
}
