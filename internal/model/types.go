// Package model defines shared data structures.
package model

// Default timing settings. Window bounds are multiples of the base unit.
const (
	DefaultUnitMs     = 100
	DefaultDotMin     = 0.5
	DefaultDotMax     = 1.5
	DefaultDashMin    = 1.5
	DefaultDashMax    = 4.5
	DefaultGapMin     = 3.0
	DefaultGapMax     = 9.0
	DefaultWordGapMax = 0.0
)

// Config defines keyer timing settings.
type Config struct {
	UnitMs     int
	DotMin     float64
	DotMax     float64
	DashMin    float64
	DashMax    float64
	GapMin     float64
	GapMax     float64
	WordGapMax float64
}

// DefaultConfig returns the default timing settings.
func DefaultConfig() Config {
	return Config{
		UnitMs:     DefaultUnitMs,
		DotMin:     DefaultDotMin,
		DotMax:     DefaultDotMax,
		DashMin:    DefaultDashMin,
		DashMax:    DefaultDashMax,
		GapMin:     DefaultGapMin,
		GapMax:     DefaultGapMax,
		WordGapMax: DefaultWordGapMax,
	}
}
