package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/morze/internal/keyboard"
	"github.com/verte-zerg/morze/internal/morse"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestModel() *Model {
	session := morse.NewSession(morse.DefaultThresholds(), morse.Cyrillic(), start)
	return NewModel(session, nil)
}

func send(m *Model, kind keyboard.Kind, offset time.Duration) tea.Cmd {
	_, cmd := m.Update(keyboard.Event{Kind: kind, At: start.Add(offset)})
	return cmd
}

func TestUpdateKeysLetter(t *testing.T) {
	m := newTestModel()
	send(m, keyboard.ProtocolDetected, 0)
	send(m, keyboard.KeyDown, time.Second)
	if !m.down {
		t.Fatalf("expected key to be down")
	}
	send(m, keyboard.KeyUp, 1100*time.Millisecond)
	send(m, keyboard.KeyDown, 1200*time.Millisecond)
	send(m, keyboard.KeyUp, 1500*time.Millisecond)
	if got := m.session.Buffer(); got != "*—" {
		t.Fatalf("expected buffer %q, got %q", "*—", got)
	}
	send(m, keyboard.Decode, 2*time.Second)
	if got := m.session.Text(); got != "А" {
		t.Fatalf("expected decoded %q, got %q", "А", got)
	}
	if m.last.Symbol != morse.SymbolDash {
		t.Fatalf("expected last symbol dash, got %s", m.last.Symbol)
	}

	send(m, keyboard.Clear, 3*time.Second)
	if m.session.Buffer() != "" || m.session.Text() != "" {
		t.Fatalf("expected cleared session")
	}
}

func TestUpdateQuit(t *testing.T) {
	m := newTestModel()
	if cmd := send(m, keyboard.Quit, 0); cmd == nil {
		t.Fatalf("expected quit command")
	}
}

func TestUpdateProtocolMissingSwitchesToToggle(t *testing.T) {
	m := newTestModel()
	send(m, keyboard.ProtocolMissing, 0)
	if m.mode != modeToggle {
		t.Fatalf("expected toggle mode, got %s", m.mode)
	}
}

func TestUpdateTeaKeySpaceToggles(t *testing.T) {
	m := newTestModel()
	clock := start.Add(time.Second)
	m.now = func() time.Time { return clock }

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.down {
		t.Fatalf("expected key down after first space")
	}
	clock = clock.Add(300 * time.Millisecond)
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.down {
		t.Fatalf("expected key up after second space")
	}
	if got := m.session.Buffer(); got != "—" {
		t.Fatalf("expected dash, got %q", got)
	}
}

func TestTerminalKeysDriveSession(t *testing.T) {
	m := newTestModel()
	m.UseTerminalKeys()
	if !strings.Contains(m.View(), "input: toggle") {
		t.Fatalf("expected toggle input mode in view")
	}
	clock := start.Add(time.Second)
	m.now = func() time.Time { return clock }

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	clock = clock.Add(100 * time.Millisecond)
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	clock = clock.Add(time.Second)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.session.Text(); got != "Е" {
		t.Fatalf("expected decoded %q, got %q", "Е", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if m.session.Buffer() != "" {
		t.Fatalf("expected cleared buffer")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc}); cmd == nil {
		t.Fatalf("expected esc to quit")
	}
}

func TestViewShowsBufferTextAndWindows(t *testing.T) {
	m := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	send(m, keyboard.KeyDown, time.Second)
	send(m, keyboard.KeyUp, 1300*time.Millisecond)
	send(m, keyboard.Decode, 2*time.Second)

	out := m.View()
	for _, needle := range []string{"Morze", "Т", "unit 100ms", "dot 50–150ms", "dash 150–450ms", "gap 300–900ms", "word off", "key-up 300ms → dash"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("view missing %q:\n%s", needle, out)
		}
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m := newTestModel()
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !strings.Contains(out, "unit 100ms · dot 50–150ms") {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}
