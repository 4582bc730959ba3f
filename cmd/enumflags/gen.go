package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"enumflags/internal/driver"
	"enumflags/internal/observ"
	"enumflags/internal/project"
	"enumflags/internal/trace"
)

// errDiagnostics выходит с кодом 1, когда диагностики уже напечатаны.
var errDiagnostics = errors.New("generation failed")

var genCmd = &cobra.Command{
	Use:   "gen [flags] <file.flags|directory>",
	Short: "Generate Go bit flag types from .flags files",
	Long: `Generate writes <name>_flags.go next to every .flags file. A directory is
searched recursively and its files are processed in parallel.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error { return runGenerate(cmd, args[0], true) },
}

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.flags|directory>",
	Short: "Report diagnostics without writing any file",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runGenerate(cmd, args[0], false) },
}

func init() {
	for _, c := range []*cobra.Command{genCmd, checkCmd} {
		c.Flags().String("format", "pretty", "diagnostics format (pretty|json|short)")
		c.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=manifest or auto)")
		c.Flags().Bool("with-notes", true, "include diagnostic notes in output")
		c.Flags().Bool("suggest", false, "include fix suggestions in output")
		c.Flags().Bool("fullpath", false, "emit absolute file paths in output")
		c.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
		c.Flags().String("manifest", "", "path to enumflags.toml (default: search upwards)")
	}
	genCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	genCmd.Flags().Bool("cache", false, "reuse results from the on-disk cache")
	genCmd.Flags().Bool("stdout", false, "print the generated source instead of writing it (single file)")
	genCmd.Flags().Bool("debug-dump", false, "print debug = true dumps to stderr even when --trace-level debug would record them")
}

type genFlags struct {
	format           string
	jobs             int
	withNotes        bool
	suggest          bool
	fullPath         bool
	warningsAsErrors bool
	manifest         string
	ui               uiMode
	cache            bool
	stdout           bool
	debugDump        bool
	quiet            bool
	timings          bool
	maxDiagnostics   int
	color            string
	write            bool
}

func readGenFlags(cmd *cobra.Command) (genFlags, error) {
	var (
		f   genFlags
		err error
	)
	flags := cmd.Flags()
	if f.format, err = flags.GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	if f.jobs, err = flags.GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return f, err
	}
	if f.suggest, err = flags.GetBool("suggest"); err != nil {
		return f, err
	}
	if f.fullPath, err = flags.GetBool("fullpath"); err != nil {
		return f, err
	}
	if f.warningsAsErrors, err = flags.GetBool("warnings-as-errors"); err != nil {
		return f, err
	}
	if f.manifest, err = flags.GetString("manifest"); err != nil {
		return f, err
	}
	f.ui = uiModeOff
	if flags.Lookup("ui") != nil {
		uiStr, _ := flags.GetString("ui")
		if f.ui, err = readUIMode(uiStr); err != nil {
			return f, err
		}
		f.cache, _ = flags.GetBool("cache")
		f.stdout, _ = flags.GetBool("stdout")
		f.debugDump, _ = flags.GetBool("debug-dump")
	}

	root := cmd.Root().PersistentFlags()
	if f.quiet, err = root.GetBool("quiet"); err != nil {
		return f, err
	}
	if f.timings, err = root.GetBool("timings"); err != nil {
		return f, err
	}
	if f.maxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return f, err
	}
	if f.color, err = root.GetString("color"); err != nil {
		return f, err
	}
	switch f.format {
	case "pretty", "json", "short":
	default:
		return f, fmt.Errorf("unknown format: %s", f.format)
	}
	return f, nil
}

// loadManifest uses --manifest or the nearest enumflags.toml above path.
func loadManifest(explicit, path string) (*project.Manifest, error) {
	if explicit != "" {
		return project.Load(explicit)
	}
	m, _, err := project.Discover(path)
	return m, err
}

func runGenerate(cmd *cobra.Command, path string, write bool) error {
	flags, err := readGenFlags(cmd)
	if err != nil {
		return err
	}
	flags.write = write
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if flags.stdout && st.IsDir() {
		return fmt.Errorf("--stdout is only supported for single files")
	}
	manifest, err := loadManifest(flags.manifest, path)
	if err != nil {
		return err
	}

	var timer *observ.Timer
	if flags.timings {
		timer = observ.NewTimer()
	}
	opts := driver.Options{
		Manifest:       manifest,
		MaxDiagnostics: flags.maxDiagnostics,
		Jobs:           flags.jobs,
		Write:          write && !flags.stdout,
		Timer:          timer,
	}
	if opts.Jobs == 0 {
		opts.Jobs = manifest.Generate.Jobs
	}
	// без трассировки уровня debug дамп идёт в stderr
	if flags.debugDump || !debugTraced(cmd) {
		opts.Debug = cmd.ErrOrStderr()
	}
	if flags.cache || manifest.Generate.Cache {
		if opts.Cache, err = driver.OpenDiskCache("enumflags"); err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
	}

	var result *driver.Result
	switch {
	case !st.IsDir():
		result, err = driver.GenerateFile(cmd.Context(), path, opts)
	case write && shouldUseTUI(flags.ui) && !flags.quiet:
		files, listErr := driver.ListFlagFiles(path)
		if listErr != nil {
			return listErr
		}
		result, err = runGenerateWithUI(cmd.Context(), "enumflags gen "+filepath.Base(path), path, files, opts)
	default:
		result, err = driver.GenerateDir(cmd.Context(), path, opts)
	}
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	failed, err := reportResult(cmd, result, flags)
	if err != nil {
		return err
	}
	if flags.stdout && !failed && len(result.Files) == 1 {
		if _, err := cmd.OutOrStdout().Write(result.Files[0].Source); err != nil {
			return err
		}
	}
	if timer != nil {
		printTimings(cmd.ErrOrStderr(), timer)
	}
	if failed {
		_ = closeSession(cmd)
		// диагностики уже напечатаны, usage не нужен
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errDiagnostics
	}
	return nil
}

// debugTraced reports whether the command's tracer records unit level points,
// where debug = true dumps end up when no writer is set.
func debugTraced(cmd *cobra.Command) bool {
	ctx := cmd.Context()
	if ctx == nil {
		return false
	}
	return trace.FromContext(ctx).Level().ShouldEmit(trace.ScopeUnit)
}
