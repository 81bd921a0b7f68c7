package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/morze/internal/keyboard"
	"github.com/verte-zerg/morze/internal/morse"
)

type inputMode int

const (
	modeDetecting inputMode = iota
	modeKitty
	modeToggle
)

func (m inputMode) String() string {
	switch m {
	case modeKitty:
		return "press/release"
	case modeToggle:
		return "toggle (no release events)"
	default:
		return "detecting"
	}
}

type keyMap struct {
	Key    key.Binding
	Clear  key.Binding
	Decode key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Key, k.Clear, k.Decode, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Key:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "key")),
		Clear:  key.NewBinding(key.WithKeys("c", "backspace"), key.WithHelp("c", "clear")),
		Decode: key.NewBinding(key.WithKeys("d", "enter"), key.WithHelp("d/enter", "decode")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	dotStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	dashStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FB3FF"))
	separatorStyle = lipgloss.NewStyle()
	otherStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cursorStyle    = lipgloss.NewStyle().Underline(true)
	textStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	downStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#3AC86A")).Bold(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	boxStyle       = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// Model implements the Bubble Tea keyer UI.
type Model struct {
	session *morse.Session
	logger  *zap.Logger
	keys    keyMap
	help    help.Model
	now     func() time.Time

	width  int
	height int

	mode    inputMode
	down    bool
	last    morse.Result
	hasLast bool
}

// NewModel constructs a keyer model around session.
func NewModel(session *morse.Session, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Model{
		session: session,
		logger:  logger,
		keys:    defaultKeyMap(),
		help:    help.New(),
		now:     time.Now,
	}
}

// UseTerminalKeys marks the model as keyed through Bubble Tea key messages,
// which carry no release, so space toggles the key.
func (m *Model) UseTerminalKeys() {
	m.mode = modeToggle
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case keyboard.Event:
		return m.handleEvent(msg)
	case tea.KeyMsg:
		at := m.now()
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Key):
			m.mode = modeToggle
			if m.down {
				return m.handleEvent(keyboard.Event{Kind: keyboard.KeyUp, At: at})
			}
			return m.handleEvent(keyboard.Event{Kind: keyboard.KeyDown, At: at})
		case key.Matches(msg, m.keys.Clear):
			return m.handleEvent(keyboard.Event{Kind: keyboard.Clear, At: at})
		case key.Matches(msg, m.keys.Decode):
			return m.handleEvent(keyboard.Event{Kind: keyboard.Decode, At: at})
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleEvent(ev keyboard.Event) (tea.Model, tea.Cmd) {
	var kind morse.EventKind
	switch ev.Kind {
	case keyboard.Quit:
		return m, tea.Quit
	case keyboard.ProtocolDetected:
		m.mode = modeKitty
		m.logger.Debug("keyboard protocol detected")
		return m, nil
	case keyboard.ProtocolMissing:
		m.mode = modeToggle
		m.logger.Warn("terminal does not report key releases; space toggles the key")
		return m, nil
	case keyboard.KeyDown:
		m.down = true
		kind = morse.EventKeyDown
	case keyboard.KeyUp:
		m.down = false
		kind = morse.EventKeyUp
	case keyboard.Clear:
		kind = morse.EventClear
	case keyboard.Decode:
		kind = morse.EventDecode
	default:
		return m, nil
	}

	res := m.session.Apply(morse.Event{Kind: kind, At: ev.At})
	if kind == morse.EventKeyDown || kind == morse.EventKeyUp {
		m.last = res
		m.hasLast = true
	}
	m.logger.Debug("event applied",
		zap.Stringer("kind", kind),
		zap.Duration("elapsed", res.Elapsed),
		zap.Stringer("symbol", res.Symbol),
		zap.String("buffer", m.session.Buffer()),
	)
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	contentWidth := m.width * 70 / 100
	if m.width == 0 {
		contentWidth = 60
	}
	if contentWidth < 10 {
		contentWidth = 10
	}
	innerWidth := contentWidth - boxStyle.GetHorizontalFrameSize()

	buffer := wrapStyledRunes(buildStyledRunes([]rune(m.session.Buffer()), true), innerWidth)
	decoded := m.session.Text()
	if decoded != "" {
		decoded = textStyle.Render(decoded)
	}

	sections := []string{
		titleStyle.Render("Morze"),
		labelStyle.Render("Symbols"),
		boxStyle.Width(contentWidth).Render(buffer),
		labelStyle.Render("Text"),
		boxStyle.Width(contentWidth).Render(decoded),
		m.renderStatus(),
		m.help.View(m.keys),
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderStatus() string {
	state := labelStyle.Render("▲ up")
	if m.down {
		state = downStyle.Render("▼ down")
	}
	segments := []string{state}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("%s %dms → %s",
			m.last.Event.Kind, m.last.Elapsed.Milliseconds(), m.last.Symbol))
	}
	segments = append(segments, "input: "+m.mode.String())
	return strings.Join(segments, "  ")
}

func (m *Model) renderFooter() string {
	th := m.session.Thresholds()
	segments := []string{
		fmt.Sprintf("unit %dms", th.Unit.Milliseconds()),
		"dot " + th.Dot.String(),
		"dash " + th.Dash.String(),
		"gap " + th.Gap.String(),
		"word " + th.WordGap.String(),
	}
	return footerStyle.Render(strings.Join(segments, " · "))
}
