package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"enumflags/internal/diag"
	"enumflags/internal/diagfmt"
	"enumflags/internal/driver"
)

// reportResult prints diagnostics and a per-file summary. It reports whether
// the run counts as failed.
func reportResult(cmd *cobra.Command, result *driver.Result, flags genFlags) (bool, error) {
	out := cmd.OutOrStdout()
	pathMode := diagfmt.PathModeAuto
	if flags.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	failed := false
	for i := range result.Files {
		fr := &result.Files[i]
		fr.Bag.Sort()
		if fr.Failed() || (flags.warningsAsErrors && fr.Bag.HasWarnings()) {
			failed = true
		}
	}

	switch flags.format {
	case "pretty":
		useColor, err := colorMode(flags.color, os.Stdout)
		if err != nil {
			return false, err
		}
		opts := diagfmt.PrettyOpts{
			Color:     useColor,
			Context:   2,
			PathMode:  pathMode,
			ShowNotes: flags.withNotes,
			ShowFixes: flags.suggest,
		}
		for _, fr := range result.Files {
			if fr.Bag.Len() > 0 {
				diagfmt.Pretty(out, fr.Bag, result.FileSet, opts)
			}
		}
		if flags.write && !flags.quiet && !flags.stdout {
			printSummary(cmd, result)
		}
	case "short":
		for _, fr := range result.Files {
			if output := diag.FormatShortDiagnostics(fr.Bag.Items(), result.FileSet, flags.withNotes); output != "" {
				fmt.Fprintln(out, output)
			}
		}
	case "json":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     flags.withNotes,
			IncludeFixes:     flags.suggest,
		}
		output := make(map[string]diagfmt.DiagnosticsOutput, len(result.Files))
		for _, fr := range result.Files {
			output[fr.Path] = diagfmt.BuildDiagnosticsOutput(fr.Bag, result.FileSet, jsonOpts)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(output); err != nil {
			return false, fmt.Errorf("failed to encode diagnostics: %w", err)
		}
	}
	return failed, nil
}

func printSummary(cmd *cobra.Command, result *driver.Result) {
	var written, cached, unchanged, failed int
	for _, fr := range result.Files {
		switch {
		case fr.Failed():
			failed++
		case fr.Written:
			written++
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", fr.Output)
		case fr.Cached:
			cached++
		case fr.Source != nil:
			unchanged++
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d files: %d written, %d unchanged, %d cached, %d failed\n",
		len(result.Files), written, unchanged, cached, failed)
}
