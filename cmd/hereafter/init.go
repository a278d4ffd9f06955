package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"hereafter/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Write a default hereafter.toml",
	Long: `Init writes a hereafter.toml holding the default vocabulary and pass
options. If [directory] is omitted, the current directory is used; a missing
directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("yaml", false, "write hereafter.yaml instead")
	initCmd.Flags().Bool("force", false, "overwrite an existing file")
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

	// Ensure directory exists
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

	asYAML, _ := cmd.Flags().GetBool("yaml")
	force, _ := cmd.Flags().GetBool("force")
	name := config.TOMLName
	if asYAML {
		name = config.YAMLName
	}
	path := filepath.Join(target, name)
	if err := config.WriteFile(path, config.Default(), force); err != nil {
		if errors.Is(err, config.ErrExists) {
			return fmt.Errorf("already initialized: %s exists (use --force)", path)
		}
		return err
	}

	rel := path
	if wd, err := os.Getwd(); err == nil {
		if r, err := filepath.Rel(wd, path); err == nil {
			rel = r
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", rel)
	return nil
}
