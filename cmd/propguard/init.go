package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"propguard/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default propguard.toml",
	Long: `Write a propguard.toml with the default include/exclude lists and rule
settings. Without [dir] the current directory is used; a missing directory is
created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// runInit refuses to overwrite an existing propguard.toml.
func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if st, err := os.Stat(abs); err == nil && !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	path, err := project.WriteDefault(abs)
	if err != nil {
		return fmt.Errorf("init failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	return nil
}
