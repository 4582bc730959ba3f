package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"enumflags/internal/driver"
	"enumflags/internal/format"
	"enumflags/internal/source"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <file.flags|directory>",
	Short: "Rewrite .flags files in the canonical layout",
	Long: `Fmt normalizes spacing, indentation and blank lines of .flags files in place.
Tokens and comments are never changed.`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "list files that are not formatted and fail instead of rewriting")
	fmtCmd.Flags().Bool("stdout", false, "print the formatted source instead of writing it (single file)")
	fmtCmd.Flags().Int("indent", 4, "spaces per indentation level")
	fmtCmd.Flags().Bool("tabs", false, "indent with tabs")
}

func runFmt(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	check, _ := flags.GetBool("check")
	toStdout, _ := flags.GetBool("stdout")
	indent, _ := flags.GetInt("indent")
	tabs, _ := flags.GetBool("tabs")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	opts := format.Options{IndentWidth: indent, UseTabs: tabs}

	path := args[0]
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	files := []string{path}
	if st.IsDir() {
		if toStdout {
			return fmt.Errorf("--stdout is only supported for single files")
		}
		if files, err = driver.ListFlagFiles(path); err != nil {
			return err
		}
	}

	failed := false
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		fs := source.NewFileSet()
		sf := fs.Get(fs.Add(file, raw, 0))
		formatted, err := format.FormatFile(sf, opts)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", file, err)
			failed = true
			continue
		}
		if ok, msg := format.CheckRoundTrip(sf, opts); !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s, file left unchanged\n", file, msg)
			failed = true
			continue
		}
		switch {
		case toStdout:
			if _, err := cmd.OutOrStdout().Write(formatted); err != nil {
				return err
			}
		case bytes.Equal(raw, formatted):
		case check:
			fmt.Fprintln(cmd.OutOrStdout(), file)
			failed = true
		default:
			mode := os.FileMode(0o644)
			if info, err := os.Stat(file); err == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(file, formatted, mode); err != nil {
				return fmt.Errorf("failed to write %s: %w", file, err)
			}
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "formatted %s\n", file)
			}
		}
	}
	if failed {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errDiagnostics
	}
	return nil
}
