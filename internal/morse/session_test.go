package morse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/morze/internal/model"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestSession() *Session {
	return NewSession(DefaultThresholds(), Cyrillic(), epoch)
}

// key presses the key gap after at and releases it hold later.
func key(s *Session, at time.Time, gap, hold time.Duration) time.Time {
	down := at.Add(gap)
	s.KeyDown(down)
	up := down.Add(hold)
	s.KeyUp(up)
	return up
}

func TestKeyUpScenarioAtDefaultUnit(t *testing.T) {
	tests := []struct {
		name string
		hold time.Duration
		want string
	}{
		{"short dot", 80 * time.Millisecond, "*"},
		{"long dot", 140 * time.Millisecond, "*"},
		{"dash", 320 * time.Millisecond, "—"},
		{"too long", 700 * time.Millisecond, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession()
			s.KeyUp(epoch.Add(tt.hold))
			assert.Equal(t, tt.want, s.Buffer())
		})
	}
}

func TestKeyUpDotRangeAppendsExactlyOneDot(t *testing.T) {
	th := DefaultThresholds()
	for d := th.Dot.Min + time.Millisecond; d < th.Dot.Max; d += 7 * time.Millisecond {
		s := newTestSession()
		sym := s.KeyUp(epoch.Add(d))
		require.Equal(t, SymbolDot, sym, "elapsed %v", d)
		require.Equal(t, string(Dot), s.Buffer(), "elapsed %v", d)
	}
}

func TestKeyUpDashRangeAppendsExactlyOneDash(t *testing.T) {
	th := DefaultThresholds()
	for d := th.Dash.Min + time.Millisecond; d < th.Dash.Max; d += 11 * time.Millisecond {
		s := newTestSession()
		sym := s.KeyUp(epoch.Add(d))
		require.Equal(t, SymbolDash, sym, "elapsed %v", d)
		require.Equal(t, string(Dash), s.Buffer(), "elapsed %v", d)
	}
}

func TestKeyUpOutsideRangesAppendsNothing(t *testing.T) {
	for _, d := range []time.Duration{
		0,
		10 * time.Millisecond,
		49 * time.Millisecond,
		451 * time.Millisecond,
		time.Second,
		-20 * time.Millisecond,
	} {
		s := newTestSession()
		sym := s.KeyUp(epoch.Add(d))
		assert.Equal(t, SymbolNone, sym, "elapsed %v", d)
		assert.Empty(t, s.Buffer(), "elapsed %v", d)
	}
}

func TestSharedBoundaryIsDot(t *testing.T) {
	s := newTestSession()
	assert.Equal(t, SymbolDot, s.KeyUp(epoch.Add(150*time.Millisecond)))
	assert.Equal(t, "*", s.Buffer())
}

func TestKeyDownGapAppendsSeparator(t *testing.T) {
	s := newTestSession()
	at := key(s, epoch, time.Second, 100*time.Millisecond)
	at = key(s, at, 400*time.Millisecond, 300*time.Millisecond)
	assert.Equal(t, "* —", s.Buffer())

	// A pause longer than the gap window joins the next symbol to the letter.
	key(s, at, 2*time.Second, 100*time.Millisecond)
	assert.Equal(t, "* —*", s.Buffer())
}

func TestKeyDownWordGapAppendsTwoSeparators(t *testing.T) {
	cfg := testConfig()
	cfg.WordGapMax = 21
	th, err := NewThresholds(cfg)
	require.NoError(t, err)

	s := NewSession(th, Cyrillic(), epoch)
	at := key(s, epoch, 5*time.Second, 100*time.Millisecond)
	assert.Equal(t, SymbolWordGap, s.KeyDown(at.Add(1500*time.Millisecond)))
	s.KeyUp(at.Add(1600 * time.Millisecond))
	assert.Equal(t, "*  *", s.Buffer())
	assert.Equal(t, "Е Е", s.Decode())
}

func TestTimerResetsOnEveryKeyEvent(t *testing.T) {
	s := newTestSession()
	// Out-of-range events still re-arm the timer.
	s.KeyDown(epoch.Add(5 * time.Second))
	assert.Equal(t, time.Duration(0), s.Since(epoch.Add(5*time.Second)))
	s.KeyUp(epoch.Add(5*time.Second + 2*time.Second))
	assert.Empty(t, s.Buffer())
	assert.Equal(t, 100*time.Millisecond, s.Since(epoch.Add(7*time.Second+100*time.Millisecond)))
}

func TestDecodeIdempotent(t *testing.T) {
	s := newTestSession()
	at := key(s, epoch, time.Second, 100*time.Millisecond)
	key(s, at, 100*time.Millisecond, 300*time.Millisecond)
	require.Equal(t, "*—", s.Buffer())

	first := s.Decode()
	second := s.Decode()
	assert.Equal(t, "А", first)
	assert.Equal(t, first, second)
	assert.Equal(t, "*—", s.Buffer())
	assert.Equal(t, "А", s.Text())
}

func TestClearThenDecodeIsEmpty(t *testing.T) {
	s := newTestSession()
	key(s, epoch, time.Second, 100*time.Millisecond)
	s.Decode()
	s.Clear()
	assert.Empty(t, s.Buffer())
	assert.Empty(t, s.Text())
	assert.Equal(t, "", s.Decode())
}

func TestApplyReducer(t *testing.T) {
	s := newTestSession()
	events := []Event{
		{Kind: EventKeyDown, At: epoch.Add(time.Second)},
		{Kind: EventKeyUp, At: epoch.Add(time.Second + 300*time.Millisecond)},
		{Kind: EventKeyDown, At: epoch.Add(time.Second + 400*time.Millisecond)},
		{Kind: EventKeyUp, At: epoch.Add(time.Second + 500*time.Millisecond)},
	}
	var results []Result
	for _, ev := range events {
		results = append(results, s.Apply(ev))
	}
	assert.Equal(t, SymbolNone, results[0].Symbol)
	assert.Equal(t, SymbolDash, results[1].Symbol)
	assert.Equal(t, 300*time.Millisecond, results[1].Elapsed)
	assert.Equal(t, SymbolNone, results[2].Symbol)
	assert.Equal(t, SymbolDot, results[3].Symbol)

	res := s.Apply(Event{Kind: EventDecode, At: epoch.Add(2 * time.Second)})
	assert.Equal(t, "Н", res.Text)

	// Decode re-arms the timer.
	assert.Equal(t, time.Duration(0), s.Since(epoch.Add(2*time.Second)))

	s.Apply(Event{Kind: EventClear, At: epoch.Add(3 * time.Second)})
	assert.Empty(t, s.Buffer())
	assert.Empty(t, s.Text())
}

func TestDecodeStringUnknownTokenBecomesSpace(t *testing.T) {
	table := Cyrillic()
	assert.Equal(t, "А", DecodeString(table, "*—"))
	assert.Equal(t, " А", DecodeString(table, " *—"))
	assert.Equal(t, " А", DecodeString(table, "*—*—*—*— *—"))
	assert.Equal(t, "А А", DecodeString(table, "*—  *—"))
	assert.Equal(t, "", DecodeString(table, ""))
}

func TestNormalizeSymbols(t *testing.T) {
	assert.Equal(t, "*— —***", NormalizeSymbols(".- -..."))
	assert.Equal(t, "*— ", NormalizeSymbols("·_\t"))
	assert.Equal(t, "—* *", NormalizeSymbols("–.\n."))
}

func testConfig() model.Config {
	return model.DefaultConfig()
}
