package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"enumflags/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create an enumflags.toml manifest",
	Long: `Initialize writes an enumflags.toml with the default generation settings into
[path] (the current directory when omitted). The package name is derived from
the directory name unless --package is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("package", "", "package clause for .flags files without one")
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	pkg, err := cmd.Flags().GetString("package")
	if err != nil {
		return err
	}
	if pkg == "" {
		pkg = project.PackageFromDir(target)
	}
	if !project.ValidPackage(pkg) {
		return fmt.Errorf("%w: %q", project.ErrInvalidPackage, pkg)
	}
	path, err := project.WriteDefault(target, pkg)
	if err != nil {
		return err
	}
	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (package %s)\n", path, pkg)
	}
	return nil
}
