package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mark3labs/casewiz/internal/config"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	project bool
	force   bool
	storage string
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write a casewiz config file",
	Long: `Write a config file with the default autosave and message timings.

The file goes to ~/.config/casewiz/casewiz.yml, or to casewiz.yml in the
working directory with --project. Pick --storage file to keep drafts on disk
so 'casewiz new --resume' and 'casewiz draft' can find them after exit.`,
	Example: `  casewiz setup
  casewiz setup --project --storage file`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Write casewiz.yml in the working directory")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Replace an existing config file")
	setupCmd.Flags().StringVar(&setupFlags.storage, "storage", config.StorageMemory, "Autosave storage: memory or file")
}

func runSetup(cmd *cobra.Command, args []string) error {
	path, write := config.GlobalPath(), config.WriteGlobal
	if setupFlags.project {
		path, write = config.ProjectPath(), config.WriteProject
	}

	if _, err := os.Stat(path); err == nil && !setupFlags.force {
		return fmt.Errorf("%s already exists, rerun with --force to replace it", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	cfg := config.Default()
	cfg.AutosaveStorage = setupFlags.storage
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := write(cfg); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s\n", path)
	fmt.Fprintf(out, "  autosave: %s every %s\n", cfg.AutosaveStorage, cfg.AutosaveInterval)
	fmt.Fprintf(out, "  messages clear after %s\n\n", cfg.MessageTimeout)
	fmt.Fprintln(out, "Run 'casewiz new' to open a case.")
	return nil
}
