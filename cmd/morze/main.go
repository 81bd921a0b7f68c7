// Package main provides the CLI entrypoint for morze.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/verte-zerg/morze/internal/config"
	"github.com/verte-zerg/morze/internal/keyboard"
	"github.com/verte-zerg/morze/internal/model"
	"github.com/verte-zerg/morze/internal/morse"
	"github.com/verte-zerg/morze/internal/tui"
)

var (
	timingUnit       int
	timingDotMin     float64
	timingDotMax     float64
	timingDashMin    float64
	timingDashMax    float64
	timingGapMin     float64
	timingGapMax     float64
	timingWordGapMax float64

	verbose bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "morze",
		Short:         "Decode Morse code keyed on the space bar",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runKeyerCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&timingUnit, "unit", model.DefaultUnitMs, "base unit (dot length) in milliseconds")
	flags.Float64Var(&timingDotMin, "dot-min", model.DefaultDotMin, "shortest dot, in units")
	flags.Float64Var(&timingDotMax, "dot-max", model.DefaultDotMax, "longest dot, in units")
	flags.Float64Var(&timingDashMin, "dash-min", model.DefaultDashMin, "shortest dash, in units")
	flags.Float64Var(&timingDashMax, "dash-max", model.DefaultDashMax, "longest dash, in units")
	flags.Float64Var(&timingGapMin, "gap-min", model.DefaultGapMin, "shortest letter gap, in units")
	flags.Float64Var(&timingGapMax, "gap-max", model.DefaultGapMax, "longest letter gap, in units")
	flags.Float64Var(&timingWordGapMax, "word-gap-max", model.DefaultWordGapMax, "longest word gap, in units (0 disables)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newEncodeCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newTableCmd())

	return rootCmd
}

func runKeyerCmd(cmd *cobra.Command, _ []string) error {
	th, err := resolveThresholds(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	session := morse.NewSession(th, morse.Cyrillic(), time.Now())
	m := tui.NewModel(session, logger)

	reader, openErr := keyboard.Open(os.Stdin, os.Stdout)
	input := chooseInput(openErr)
	if input == inputTerminal {
		logger.Warn("raw keyboard unavailable; space toggles the key", zap.Error(openErr))
		m.UseTerminalKeys()
	}

	program := tea.NewProgram(m, input.programOptions()...)
	if input == inputRaw {
		go func() {
			if err := reader.Run(func(ev keyboard.Event) { program.Send(ev) }); err != nil {
				logger.Error("keyboard input stopped", zap.Error(err))
				program.Send(keyboard.Event{Kind: keyboard.Quit, At: time.Now()})
			}
		}()
	}

	_, runErr := program.Run()
	if reader != nil {
		if cerr := reader.Close(); cerr != nil {
			logger.Warn("failed to release terminal", zap.Error(cerr))
		}
	}
	if runErr != nil {
		if errors.Is(openErr, keyboard.ErrNotTerminal) {
			return fmt.Errorf("the keyer needs an interactive terminal (try: morze replay): %w", runErr)
		}
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	return nil
}

// inputSource selects who reads the keyboard for the keyer.
type inputSource int

const (
	// inputRaw reads press and release events through keyboard.Reader.
	inputRaw inputSource = iota
	// inputTerminal lets Bubble Tea read keys from the controlling terminal.
	inputTerminal
)

func chooseInput(openErr error) inputSource {
	if openErr != nil {
		return inputTerminal
	}
	return inputRaw
}

func (s inputSource) programOptions() []tea.ProgramOption {
	if s == inputTerminal {
		return []tea.ProgramOption{tea.WithAltScreen(), tea.WithInputTTY()}
	}
	return []tea.ProgramOption{tea.WithAltScreen(), tea.WithInput(nil)}
}

func resolveThresholds(cmd *cobra.Command) (morse.Thresholds, error) {
	cfg, err := resolveTimingConfig(cmd)
	if err != nil {
		return morse.Thresholds{}, err
	}
	th, err := morse.NewThresholds(cfg)
	if err != nil {
		return morse.Thresholds{}, fmt.Errorf("invalid timing: %w", err)
	}
	return th, nil
}

func resolveTimingConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	timing := fileCfg.Timing
	applyIntConfig(cmd, "unit", &timingUnit, timing.UnitMs)
	applyFloatConfig(cmd, "dot-min", &timingDotMin, timing.DotMin)
	applyFloatConfig(cmd, "dot-max", &timingDotMax, timing.DotMax)
	applyFloatConfig(cmd, "dash-min", &timingDashMin, timing.DashMin)
	applyFloatConfig(cmd, "dash-max", &timingDashMax, timing.DashMax)
	applyFloatConfig(cmd, "gap-min", &timingGapMin, timing.GapMin)
	applyFloatConfig(cmd, "gap-max", &timingGapMax, timing.GapMax)
	applyFloatConfig(cmd, "word-gap-max", &timingWordGapMax, timing.WordGapMax)

	cfg := model.Config{
		UnitMs:     timingUnit,
		DotMin:     timingDotMin,
		DotMax:     timingDotMax,
		DashMin:    timingDashMin,
		DashMax:    timingDashMax,
		GapMin:     timingGapMin,
		GapMax:     timingGapMax,
		WordGapMax: timingWordGapMax,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(cfg model.Config) error {
	if cfg.UnitMs <= 0 {
		return fmt.Errorf("--unit must be > 0")
	}
	if cfg.UnitMs > 10000 {
		return fmt.Errorf("--unit must be <= 10000")
	}
	bounds := []struct {
		name  string
		value float64
	}{
		{"--dot-min", cfg.DotMin},
		{"--dot-max", cfg.DotMax},
		{"--dash-min", cfg.DashMin},
		{"--dash-max", cfg.DashMax},
		{"--gap-min", cfg.GapMin},
		{"--gap-max", cfg.GapMax},
		{"--word-gap-max", cfg.WordGapMax},
	}
	for _, b := range bounds {
		if b.value < 0 {
			return fmt.Errorf("%s must be >= 0", b.name)
		}
	}
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# morze configuration
# Uncomment a value to enable it. CLI flags override config values.
# Window bounds are multiples of the unit and include both ends.

[timing]
# unit-ms = %d           # Base unit (dot length) in milliseconds
# dot-min = %.1f          # Shortest key-down accepted as a dot
# dot-max = %.1f          # Longest key-down accepted as a dot
# dash-min = %.1f         # Shortest key-down accepted as a dash
# dash-max = %.1f         # Longest key-down accepted as a dash
# gap-min = %.1f          # Shortest key-up that ends a letter
# gap-max = %.1f          # Longest key-up that ends a letter
# word-gap-max = %.1f     # Longest key-up that ends a word (0 disables)
`,
		model.DefaultUnitMs,
		model.DefaultDotMin,
		model.DefaultDotMax,
		model.DefaultDashMin,
		model.DefaultDashMax,
		model.DefaultGapMin,
		model.DefaultGapMax,
		model.DefaultWordGapMax,
	)
}
