package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/x/term"
	"github.com/mark3labs/casewiz/internal/autosave"
	"github.com/mark3labs/casewiz/internal/caseform"
	"github.com/mark3labs/casewiz/internal/config"
	"github.com/mark3labs/casewiz/internal/logger"
	"github.com/mark3labs/casewiz/internal/prompt"
	"github.com/mark3labs/casewiz/internal/tui/casewizard"
	"github.com/spf13/cobra"
)

var newFlags struct {
	plain  bool
	draft  string
	resume bool
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Open a new support case",
	Long: `Open a new support case with the three step wizard.

The full-screen UI is used when stdout is a terminal; --plain (or a
non-interactive stdout) asks the same questions as line prompts instead.
Drafts are autosaved under --draft and can be picked up again with --resume.`,
	RunE: runNew,
}

func init() {
	newCmd.Flags().BoolVar(&newFlags.plain, "plain", false, "Ask questions as line prompts instead of the full-screen UI")
	newCmd.Flags().StringVarP(&newFlags.draft, "draft", "d", "", "Draft name used for autosave (default: draft_name from config)")
	newCmd.Flags().BoolVarP(&newFlags.resume, "resume", "r", false, "Resume the saved draft instead of starting blank")
}

func runNew(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	draftName := newFlags.draft
	if draftName == "" {
		draftName = cfg.DraftName
	}
	key := autosave.Key(draftName)

	var initial *caseform.State
	if newFlags.resume {
		initial, err = loadDraft(ctx, b.store, key)
		if err != nil {
			return err
		}
		if initial == nil {
			fmt.Printf("No saved draft %q, starting a new case.\n", draftName)
		}
		if cfg.AutosaveStorage != config.StorageFile {
			logger.Warn("autosave_storage is %q; drafts do not survive a restart", cfg.AutosaveStorage)
		}
	}

	machine := caseform.Machine{
		MessageTimeout:   cfg.MessageTimeout,
		AutosaveInterval: cfg.AutosaveInterval,
	}

	var st caseform.State
	if newFlags.plain || !term.IsTerminal(os.Stdout.Fd()) {
		r := prompt.New(prompt.NewSurveyDriver(os.Stdout), prompt.Options{
			Machine:          machine,
			State:            initial,
			Store:            b.store,
			DraftKey:         key,
			AutosaveInterval: cfg.AutosaveInterval,
			Submitter:        b.submitter,
		})
		st, err = r.Run(ctx)
		if errors.Is(err, prompt.ErrAborted) {
			return printCancelled(draftName, cfg)
		}
	} else {
		st, err = casewizard.Run(ctx, casewizard.Options{
			Machine:   machine,
			State:     initial,
			Store:     b.store,
			DraftKey:  key,
			Submitter: b.submitter,
		})
		if errors.Is(err, casewizard.ErrCancelled) {
			return printCancelled(draftName, cfg)
		}
	}
	if err != nil {
		return err
	}

	fmt.Printf("Case submitted. Reference: %s\n", st.Reference)
	return nil
}

// loadDraft restores the draft under key. A missing draft returns nil.
func loadDraft(ctx context.Context, store autosave.Store, key string) (*caseform.State, error) {
	snap, err := store.Load(ctx, key)
	if errors.Is(err, autosave.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	st, err := caseform.Restore(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to restore draft: %w", err)
	}
	logger.Info("Resumed draft %q at step %d", key, st.Step)
	return &st, nil
}

func printCancelled(draftName string, cfg *config.Config) error {
	if cfg.AutosaveStorage == config.StorageFile {
		fmt.Printf("Draft saved. Resume with: casewiz new --resume --draft %s\n", draftName)
	} else {
		fmt.Println("Cancelled. Set autosave_storage: file to keep drafts between runs.")
	}
	return nil
}
