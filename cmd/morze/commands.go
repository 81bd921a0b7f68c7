package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/morze/internal/morse"
	"github.com/verte-zerg/morze/internal/report"
)

const terminalWidthBackup = 80

var (
	encodeASCII bool
	replayTrace bool
	tableFormat string
	tableASCII  bool
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <symbols>...",
		Short: "Decode a symbol string (letters separated by spaces)",
		Example: `  morze decode '*— —***'
  morze decode -- .- -...`,
		Args: cobra.MinimumNArgs(1),
		RunE: runDecodeCmd,
	}
}

func runDecodeCmd(cmd *cobra.Command, args []string) error {
	buffer := morse.NormalizeSymbols(strings.Join(args, " "))
	return writeLine(cmd.OutOrStdout(), morse.DecodeString(morse.Cyrillic(), buffer))
}

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <text>...",
		Short: "Encode text into symbols",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runEncodeCmd,
	}
	cmd.Flags().BoolVar(&encodeASCII, "ascii", false, "print dots and dashes as '.' and '-'")
	return cmd
}

func runEncodeCmd(cmd *cobra.Command, args []string) error {
	code, err := morse.Cyrillic().Encode(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if encodeASCII {
		code = asciiCode(code)
	}
	return writeLine(cmd.OutOrStdout(), code)
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <step>...",
		Short: "Run timed key steps through the decoder",
		Long: `Run timed key steps through the decoder.

Each step is +D (hold the key for D) or _D (leave it up for D); -D is
accepted for gaps after "--". D is a Go duration such as 120ms or a bare
number of milliseconds. A hold that follows another hold without a gap is
pressed immediately.`,
		Example: `  morze replay _1s +100 _100 +300     # А
  morze replay --unit 60 -- +60ms -200ms +180ms`,
		Args: cobra.MinimumNArgs(1),
		RunE: runReplayCmd,
	}
	cmd.Flags().BoolVar(&replayTrace, "trace", false, "print every classified event")
	return cmd
}

type replayStep struct {
	hold bool
	d    time.Duration
}

func parseSteps(args []string) ([]replayStep, error) {
	steps := make([]replayStep, 0, len(args))
	for _, arg := range args {
		for _, field := range strings.Fields(arg) {
			step, err := parseStep(field)
			if err != nil {
				return nil, err
			}
			steps = append(steps, step)
		}
	}
	return steps, nil
}

func parseStep(field string) (replayStep, error) {
	if len(field) < 2 || !strings.ContainsRune("+-_", rune(field[0])) {
		return replayStep{}, fmt.Errorf("invalid step %q: want +D or _D", field)
	}
	raw := field[1:]
	var d time.Duration
	if ms, err := strconv.Atoi(raw); err == nil {
		d = time.Duration(ms) * time.Millisecond
	} else {
		parsed, perr := time.ParseDuration(raw)
		if perr != nil {
			return replayStep{}, fmt.Errorf("invalid step %q: %w", field, perr)
		}
		d = parsed
	}
	if d < 0 {
		return replayStep{}, fmt.Errorf("invalid step %q: duration must be >= 0", field)
	}
	return replayStep{hold: field[0] == '+', d: d}, nil
}

func replay(session *morse.Session, steps []replayStep, start time.Time) []morse.Result {
	at := start
	results := make([]morse.Result, 0, len(steps)*2)
	for _, step := range steps {
		if !step.hold {
			at = at.Add(step.d)
			continue
		}
		results = append(results, session.Apply(morse.Event{Kind: morse.EventKeyDown, At: at}))
		at = at.Add(step.d)
		results = append(results, session.Apply(morse.Event{Kind: morse.EventKeyUp, At: at}))
	}
	return results
}

func runReplayCmd(cmd *cobra.Command, args []string) error {
	th, err := resolveThresholds(cmd)
	if err != nil {
		return err
	}
	steps, err := parseSteps(args)
	if err != nil {
		return err
	}
	start := time.Unix(0, 0)
	session := morse.NewSession(th, morse.Cyrillic(), start)
	results := replay(session, steps, start)

	out := cmd.OutOrStdout()
	if replayTrace {
		rows := make([][]string, 0, len(results))
		for _, res := range results {
			rows = append(rows, []string{
				strconv.FormatInt(res.Event.At.Sub(start).Milliseconds(), 10),
				res.Event.Kind.String(),
				strconv.FormatInt(res.Elapsed.Milliseconds(), 10),
				res.Symbol.String(),
			})
		}
		lines := report.FormatTable([]string{"At(ms)", "Event", "Elapsed(ms)", "Symbol"}, rows, map[int]bool{0: true, 2: true})
		for _, line := range lines {
			if err := writeLine(out, line); err != nil {
				return err
			}
		}
	}
	if err := writeLine(out, "symbols: "+session.Buffer()); err != nil {
		return err
	}
	return writeLine(out, "text:    "+session.Decode())
}

func newTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the symbol table",
		Args:  cobra.NoArgs,
		RunE:  runTableCmd,
	}
	cmd.Flags().StringVar(&tableFormat, "format", "text", "output format: text or yaml")
	cmd.Flags().BoolVar(&tableASCII, "ascii", false, "print dots and dashes as '.' and '-'")
	return cmd
}

type tableEntry struct {
	Char string `yaml:"char"`
	Code string `yaml:"code"`
}

func runTableCmd(cmd *cobra.Command, _ []string) error {
	entries := morse.Cyrillic().Entries()
	out := cmd.OutOrStdout()
	switch strings.ToLower(strings.TrimSpace(tableFormat)) {
	case "text", "":
		cells := make([]string, 0, len(entries))
		for _, e := range entries {
			cells = append(cells, string(e.Char)+" "+displayCode(e.Code))
		}
		for _, line := range report.Columns(cells, terminalWidth(out), 3) {
			if err := writeLine(out, line); err != nil {
				return err
			}
		}
		return nil
	case "yaml":
		list := make([]tableEntry, 0, len(entries))
		for _, e := range entries {
			list = append(list, tableEntry{Char: string(e.Char), Code: displayCode(e.Code)})
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(list); err != nil {
			return fmt.Errorf("failed to encode table: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("--format must be text or yaml")
	}
}

func displayCode(code string) string {
	if tableASCII {
		return asciiCode(code)
	}
	return code
}

func asciiCode(code string) string {
	return strings.NewReplacer(string(morse.Dot), ".", string(morse.Dash), "-").Replace(code)
}

func terminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func writeLine(w io.Writer, line string) error {
	if _, err := fmt.Fprintln(w, line); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
