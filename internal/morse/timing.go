package morse

import (
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/morze/internal/model"
)

var (
	// ErrInvalidUnit indicates the base unit is not positive.
	ErrInvalidUnit = errors.New("base unit must be positive")
	// ErrInvalidWindow indicates a window with negative or reversed bounds.
	ErrInvalidWindow = errors.New("invalid timing window")
	// ErrOverlap indicates two windows overlap beyond a single boundary point.
	ErrOverlap = errors.New("timing windows overlap")
)

// Symbol is the outcome of classifying one elapsed interval.
type Symbol int

// Symbol values.
const (
	SymbolNone Symbol = iota
	SymbolDot
	SymbolDash
	SymbolLetterGap
	SymbolWordGap
)

// String returns the human-readable name of the symbol.
func (s Symbol) String() string {
	switch s {
	case SymbolNone:
		return "none"
	case SymbolDot:
		return "dot"
	case SymbolDash:
		return "dash"
	case SymbolLetterGap:
		return "letter-gap"
	case SymbolWordGap:
		return "word-gap"
	default:
		return "unknown"
	}
}

// Window is a closed interval [Min, Max]. The zero Window matches nothing.
type Window struct {
	Min time.Duration
	Max time.Duration
}

// Contains reports whether d lies inside the window, bounds included.
func (w Window) Contains(d time.Duration) bool {
	if w.IsZero() {
		return false
	}
	return d >= w.Min && d <= w.Max
}

// IsZero reports whether the window is disabled.
func (w Window) IsZero() bool {
	return w.Min == 0 && w.Max == 0
}

// String formats the window in milliseconds.
func (w Window) String() string {
	if w.IsZero() {
		return "off"
	}
	return fmt.Sprintf("%d–%dms", w.Min.Milliseconds(), w.Max.Milliseconds())
}

// Thresholds holds the classification windows derived from a base unit.
//
// Key release durations are matched against Dot, then Dash. Key press
// durations (time since the previous release) are matched against Gap, then
// WordGap. Dot and Dash may share their boundary point; it is classified as a
// dot because Dot is tested first. The same holds for Gap and WordGap.
type Thresholds struct {
	Unit    time.Duration
	Dot     Window
	Dash    Window
	Gap     Window
	WordGap Window
}

// DefaultThresholds returns thresholds for the default configuration.
func DefaultThresholds() Thresholds {
	th, err := NewThresholds(model.DefaultConfig())
	if err != nil {
		panic(err)
	}
	return th
}

// NewThresholds derives windows from the configured unit and multipliers.
func NewThresholds(cfg model.Config) (Thresholds, error) {
	if cfg.UnitMs <= 0 {
		return Thresholds{}, fmt.Errorf("%w: %dms", ErrInvalidUnit, cfg.UnitMs)
	}
	unit := time.Duration(cfg.UnitMs) * time.Millisecond
	th := Thresholds{
		Unit: unit,
		Dot:  scaleWindow(unit, cfg.DotMin, cfg.DotMax),
		Dash: scaleWindow(unit, cfg.DashMin, cfg.DashMax),
		Gap:  scaleWindow(unit, cfg.GapMin, cfg.GapMax),
	}
	if cfg.WordGapMax > 0 {
		th.WordGap = scaleWindow(unit, cfg.GapMax, cfg.WordGapMax)
	}
	if err := th.Validate(); err != nil {
		return Thresholds{}, err
	}
	return th, nil
}

func scaleWindow(unit time.Duration, lo, hi float64) Window {
	return Window{
		Min: time.Duration(lo * float64(unit)),
		Max: time.Duration(hi * float64(unit)),
	}
}

// Validate checks window bounds and ordering.
func (t Thresholds) Validate() error {
	if t.Unit <= 0 {
		return ErrInvalidUnit
	}
	named := []struct {
		name     string
		w        Window
		optional bool
	}{
		{"dot", t.Dot, false},
		{"dash", t.Dash, false},
		{"gap", t.Gap, false},
		{"word-gap", t.WordGap, true},
	}
	for _, n := range named {
		if n.optional && n.w.IsZero() {
			continue
		}
		if n.w.Min < 0 || n.w.Max <= 0 || n.w.Min > n.w.Max {
			return fmt.Errorf("%w: %s %s", ErrInvalidWindow, n.name, n.w)
		}
	}
	if t.Dot.Max > t.Dash.Min {
		return fmt.Errorf("%w: dot %s and dash %s", ErrOverlap, t.Dot, t.Dash)
	}
	if !t.WordGap.IsZero() && t.Gap.Max > t.WordGap.Min {
		return fmt.Errorf("%w: gap %s and word-gap %s", ErrOverlap, t.Gap, t.WordGap)
	}
	return nil
}

// ClassifyHold classifies how long the key was held down.
func (t Thresholds) ClassifyHold(elapsed time.Duration) Symbol {
	switch {
	case t.Dot.Contains(elapsed):
		return SymbolDot
	case t.Dash.Contains(elapsed):
		return SymbolDash
	default:
		return SymbolNone
	}
}

// ClassifyGap classifies how long the key was up before being pressed.
func (t Thresholds) ClassifyGap(elapsed time.Duration) Symbol {
	switch {
	case t.Gap.Contains(elapsed):
		return SymbolLetterGap
	case t.WordGap.Contains(elapsed):
		return SymbolWordGap
	default:
		return SymbolNone
	}
}
