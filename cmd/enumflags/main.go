package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"enumflags/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "enumflags",
	Short: "Bit flag type generator for Go",
	Long: `enumflags turns enum declarations with power-of-two values into Go bit flag
types with set operations, a checked constructor and a readable String method`,
	PersistentPreRunE:  setupSession,
	PersistentPostRunE: finishSession,
}

// main executes the root command. Any returned error exits with status 1.
func main() {
	rootCmd.Version = version.Version
	if cmd, err := rootCmd.ExecuteC(); err != nil {
		dumpTraceRing(cmd, os.Stderr)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(genCmd, checkCmd, fixCmd, fmtCmd, tokenizeCmd, initCmd, versionCmd)

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	flags.String("trace", "", "write trace events to file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|phase|detail|debug)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.Int("trace-ring", 0, "keep the last N trace events in memory and print them on failure")
	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
