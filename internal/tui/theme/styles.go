package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle lipgloss.Style
	StepTitle   lipgloss.Style
	Instruction lipgloss.Style

	// Form fields
	Label        lipgloss.Style
	LabelFocused lipgloss.Style
	Required     lipgloss.Style
	Muted        lipgloss.Style
	Help         lipgloss.Style
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Feedback
	ErrorBanner lipgloss.Style
	Success     lipgloss.Style

	Modal lipgloss.Style

	// Hint bar
	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	// Buttons
	ButtonNormal   lipgloss.Style
	ButtonDisabled lipgloss.Style
	ButtonFocused  lipgloss.Style
}
