package main

import (
	"context"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/mark3labs/casewiz/internal/logger"
	"github.com/mark3labs/casewiz/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀▀ ▄▀█ █▀ █▀▀ █ █ █ █ ▀█"
	logoText2 = "█▄▄ █▀█ ▄█ ██▄ ▀▄▀▄▀ █ █▄"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "casewiz",
	Short: "Guided support case intake with autosaved drafts",
}

// renderLogo colors each logo line with the theme gradient.
func renderLogo() string {
	t := theme.Current()
	return strings.Join([]string{
		applyGradient(logoText1, t.Primary, t.Secondary),
		applyGradient(logoText2, t.Primary, t.Secondary),
	}, "\n")
}

func applyGradient(text, from, to string) string {
	runes := []rune(text)
	colors := theme.Gradient(from, to, len(runes))
	var b strings.Builder
	for i, r := range runes {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i])).Render(string(r)))
	}
	return b.String()
}

func init() {
	rootCmd.Long = renderLogo() + `

casewiz walks a customer through a three step support case form
(contact info, case details, review) in a full-screen terminal UI or as
plain line prompts. Drafts are autosaved to an embedded NATS JetStream
key-value bucket and submitted cases are published to a JetStream stream.`

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(draftCmd)
}
