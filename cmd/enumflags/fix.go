package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"enumflags/internal/diag"
	"enumflags/internal/driver"
	"enumflags/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.flags|directory>",
	Short: "Apply suggested fixes to .flags files",
	Long: `Fix runs the same checks as check and applies the edits attached to the
reported diagnostics. Without --all or --id only the first fix in source order
is applied.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every non-conflicting fix")
	fixCmd.Flags().String("id", "", "apply the fix with this id (see --list)")
	fixCmd.Flags().Bool("list", false, "list available fixes without applying them")
	fixCmd.Flags().Bool("dry-run", false, "print the rewritten files instead of saving them")
	fixCmd.Flags().String("manifest", "", "path to enumflags.toml (default: search upwards)")
}

func runFix(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	all, _ := flags.GetBool("all")
	id, _ := flags.GetString("id")
	list, _ := flags.GetBool("list")
	dryRun, _ := flags.GetBool("dry-run")
	manifestPath, _ := flags.GetString("manifest")
	if all && id != "" {
		return fmt.Errorf("--all and --id are mutually exclusive")
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	manifest, err := loadManifest(manifestPath, args[0])
	if err != nil {
		return err
	}
	result, err := driver.Generate(cmd.Context(), args[0], driver.Options{
		Manifest:       manifest,
		MaxDiagnostics: maxDiagnostics,
	})
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	var diagnostics []*diag.Diagnostic
	for _, fr := range result.Files {
		fr.Bag.Sort()
		diagnostics = append(diagnostics, fr.Bag.Items()...)
	}

	out := cmd.OutOrStdout()
	if list {
		for _, d := range diagnostics {
			for i, f := range d.Fixes {
				start, _ := result.FileSet.Resolve(d.Primary)
				path := result.FileSet.Get(d.Primary.File).FormatPath("auto", result.FileSet.BaseDir())
				fmt.Fprintf(out, "%s\t%s:%d:%d\t%s\n", fix.ID(d, i), path, start.Line, start.Col, f.Title)
			}
		}
		return nil
	}

	opts := fix.ApplyOptions{Mode: fix.ApplyModeOnce, DryRun: dryRun}
	switch {
	case all:
		opts.Mode = fix.ApplyModeAll
	case id != "":
		opts.Mode, opts.TargetID = fix.ApplyModeID, id
	}
	res, err := fix.Apply(result.FileSet, diagnostics, opts)
	for _, s := range res.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %s\n", s.ID, s.Reason)
	}
	if errors.Is(err, fix.ErrNoFixes) {
		fmt.Fprintln(cmd.ErrOrStderr(), "no fixes applied")
		return nil
	}
	if err != nil {
		return err
	}
	for _, a := range res.Applied {
		fmt.Fprintf(cmd.ErrOrStderr(), "applied %s: %s (%s)\n", a.Code.ID(), a.Title, a.PrimaryPath)
	}
	for _, c := range res.FileChanges {
		if dryRun {
			fmt.Fprintf(out, "--- %s\n%s", c.Path, c.Content)
			continue
		}
		fmt.Fprintf(out, "%s: %d edit(s)\n", c.Path, c.EditCount)
	}
	return nil
}
