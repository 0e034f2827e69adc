package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/aymanbagabas/go-udiff"
	"github.com/mark3labs/casewiz/internal/autosave"
	"github.com/mark3labs/casewiz/internal/caseform"
	"github.com/mark3labs/casewiz/internal/config"
	"github.com/mark3labs/casewiz/internal/logger"
	"github.com/mark3labs/casewiz/internal/tui/theme"
	"github.com/spf13/cobra"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Inspect autosaved drafts",
	Long: `Inspect autosaved drafts kept in the JetStream key-value bucket.

Drafts outlive the process only with autosave_storage: file.`,
}

var draftShowCmd = &cobra.Command{
	Use:   "show [NAME]",
	Short: "Print the latest revision of a draft as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDraftShow,
}

var draftHistoryCmd = &cobra.Command{
	Use:   "history [NAME]",
	Short: "Show what changed between saved revisions of a draft",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDraftHistory,
}

func init() {
	draftCmd.AddCommand(draftShowCmd)
	draftCmd.AddCommand(draftHistoryCmd)
}

// openDraftStore opens the file-backed draft bucket. It returns the draft
// key for args or the configured default name.
func openDraftStore(cmd *cobra.Command, args []string) (*backend, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, "", fmt.Errorf("failed to configure logging: %w", err)
	}
	if cfg.AutosaveStorage != config.StorageFile {
		return nil, "", fmt.Errorf("drafts are only kept with autosave_storage: file (current: %s)", cfg.AutosaveStorage)
	}

	name := cfg.DraftName
	if len(args) > 0 {
		name = args[0]
	}

	b, err := openBackend(cmd.Context(), cfg)
	if err != nil {
		return nil, "", err
	}
	return b, autosave.Key(name), nil
}

func runDraftShow(cmd *cobra.Command, args []string) error {
	b, key, err := openDraftStore(cmd, args)
	if err != nil {
		return err
	}
	defer b.Close()

	snap, err := b.store.Load(cmd.Context(), key)
	if errors.Is(err, autosave.ErrNotFound) {
		return fmt.Errorf("no draft saved under %q", key)
	}
	if err != nil {
		return err
	}

	data, err := snapshotJSON(snap)
	if err != nil {
		return err
	}
	fmt.Println(highlightJSON(data))
	return nil
}

func runDraftHistory(cmd *cobra.Command, args []string) error {
	b, key, err := openDraftStore(cmd, args)
	if err != nil {
		return err
	}
	defer b.Close()

	revs, err := b.store.History(cmd.Context(), key)
	if errors.Is(err, autosave.ErrNotFound) {
		return fmt.Errorf("no draft saved under %q", key)
	}
	if err != nil {
		return err
	}

	out, err := renderHistory(revs)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func snapshotJSON(snap caseform.Snapshot) (string, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding draft: %w", err)
	}
	return string(data) + "\n", nil
}

// renderHistory prints one header per revision followed by a unified diff
// against the revision before it. The oldest revision diffs against nothing.
func renderHistory(revs []autosave.Revision) (string, error) {
	var b strings.Builder
	prev := ""
	prevLabel := "empty"
	for _, rev := range revs {
		cur, err := snapshotJSON(rev.Snapshot)
		if err != nil {
			return "", err
		}
		label := fmt.Sprintf("rev %d", rev.Revision)
		fmt.Fprintf(&b, "%s · %s · %s\n", label, rev.Snapshot.Reason, rev.Snapshot.SavedAt.Format("2006-01-02 15:04:05"))

		diff := udiff.Unified(prevLabel, label, prev, cur)
		if diff == "" {
			b.WriteString("  (no changes)\n")
		} else {
			b.WriteString(diff)
		}
		b.WriteString("\n")
		prev, prevLabel = cur, label
	}
	return b.String(), nil
}

// highlightJSON colors JSON for a true color terminal. The source is
// returned unchanged if highlighting fails.
func highlightJSON(source string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}

	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Get("terminal256")
	}
	if formatter == nil {
		return source
	}

	baseStyle := styles.Get("monokai")
	if baseStyle == nil {
		baseStyle = styles.Fallback
	}
	// Match the token background to the UI base color
	bgColour := chroma.MustParseColour(theme.Current().BgBase)
	style, err := baseStyle.Builder().Transform(func(entry chroma.StyleEntry) chroma.StyleEntry {
		entry.Background = bgColour
		return entry
	}).Build()
	if err != nil {
		style = baseStyle
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return strings.TrimRight(buf.String(), "\n")
}
