package morse

import (
	"strings"
	"time"
)

// EventKind identifies a session input.
type EventKind int

// Event kinds.
const (
	EventKeyDown EventKind = iota
	EventKeyUp
	EventClear
	EventDecode
)

// String returns the human-readable name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventKeyDown:
		return "key-down"
	case EventKeyUp:
		return "key-up"
	case EventClear:
		return "clear"
	case EventDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Event is a timestamped session input.
type Event struct {
	Kind EventKind
	At   time.Time
}

// Result describes what an applied event did.
type Result struct {
	Event   Event
	Elapsed time.Duration
	Symbol  Symbol
	Text    string
}

// Session owns the keying timer, the symbol buffer and the last decoded text.
// It is not safe for concurrent use.
type Session struct {
	thresholds Thresholds
	table      *Table

	last time.Time
	buf  []rune
	text string
}

// NewSession returns a session whose timer is armed at now.
func NewSession(th Thresholds, table *Table, now time.Time) *Session {
	return &Session{
		thresholds: th,
		table:      table,
		last:       now,
	}
}

// Apply dispatches an event and re-arms the timer at ev.At.
func (s *Session) Apply(ev Event) Result {
	res := Result{Event: ev}
	switch ev.Kind {
	case EventKeyDown:
		res.Elapsed = s.Since(ev.At)
		res.Symbol = s.KeyDown(ev.At)
	case EventKeyUp:
		res.Elapsed = s.Since(ev.At)
		res.Symbol = s.KeyUp(ev.At)
	case EventClear:
		s.Clear()
		s.last = ev.At
	case EventDecode:
		res.Text = s.Decode()
		s.last = ev.At
	}
	return res
}

// KeyDown handles a key press. A press that follows a letter gap appends a
// separator; one that follows a word gap appends two.
func (s *Session) KeyDown(now time.Time) Symbol {
	sym := s.thresholds.ClassifyGap(s.Since(now))
	switch sym {
	case SymbolLetterGap:
		s.buf = append(s.buf, Separator)
	case SymbolWordGap:
		s.buf = append(s.buf, Separator, Separator)
	}
	s.last = now
	return sym
}

// KeyUp handles a key release and appends a dot or dash for in-range holds.
func (s *Session) KeyUp(now time.Time) Symbol {
	sym := s.thresholds.ClassifyHold(s.Since(now))
	switch sym {
	case SymbolDot:
		s.buf = append(s.buf, Dot)
	case SymbolDash:
		s.buf = append(s.buf, Dash)
	}
	s.last = now
	return sym
}

// Clear empties the buffer and the decoded text.
func (s *Session) Clear() {
	s.buf = s.buf[:0]
	s.text = ""
}

// Decode decodes the buffer and keeps the result for Text.
func (s *Session) Decode() string {
	s.text = DecodeString(s.table, string(s.buf))
	return s.text
}

// Since returns the time elapsed between the last event and now.
func (s *Session) Since(now time.Time) time.Duration {
	return now.Sub(s.last)
}

// Buffer returns the symbol buffer.
func (s *Session) Buffer() string {
	return string(s.buf)
}

// Text returns the result of the last Decode.
func (s *Session) Text() string {
	return s.text
}

// Thresholds returns the session's classification windows.
func (s *Session) Thresholds() Thresholds {
	return s.thresholds
}

// DecodeString maps each separator-delimited token of buffer through table.
// Unknown and empty tokens become a space. An empty buffer decodes to "".
func DecodeString(table *Table, buffer string) string {
	if buffer == "" {
		return ""
	}
	var b strings.Builder
	for _, token := range strings.Split(buffer, string(Separator)) {
		r, ok := table.Lookup(token)
		if !ok {
			r = ' '
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeSymbols rewrites common ASCII and typographic Morse notations to
// the buffer glyphs and collapses other whitespace to separators.
func NormalizeSymbols(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '.', '·', '•', Dot:
			b.WriteRune(Dot)
		case '-', '_', '–', '−', Dash:
			b.WriteRune(Dash)
		case '\t', '\n', '\r', Separator:
			b.WriteRune(Separator)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
