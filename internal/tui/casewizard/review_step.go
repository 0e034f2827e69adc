package casewizard

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/glamour/v2"
	"github.com/mark3labs/casewiz/internal/caseform"
	"github.com/mark3labs/casewiz/internal/tui/wizard"
)

// ReviewStep shows the read-only review of the case in a scrollable viewport.
type ReviewStep struct {
	viewport viewport.Model
	review   caseform.ReviewSnapshot
	width    int
	height   int
}

// NewReviewStep creates a review step showing r.
func NewReviewStep(r caseform.ReviewSnapshot) *ReviewStep {
	vp := viewport.New(
		viewport.WithWidth(60),
		viewport.WithHeight(12),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	s := &ReviewStep{viewport: vp, width: 60, height: 12}
	s.SetReview(r)
	return s
}

// SetReview replaces the displayed review and scrolls to the top.
func (s *ReviewStep) SetReview(r caseform.ReviewSnapshot) {
	s.review = r
	s.viewport.SetContent(renderMarkdown(r.Markdown(), s.width))
	s.viewport.GotoTop()
}

// Review returns the displayed review.
func (s *ReviewStep) Review() caseform.ReviewSnapshot {
	return s.review
}

// renderMarkdown renders markdown with glamour.
// Falls back to plain text if rendering fails.
func renderMarkdown(content string, width int) string {
	// Cap width to 120 for readability
	if width > 120 {
		width = 120
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	// Remove trailing newline that glamour adds
	return strings.TrimSuffix(rendered, "\n")
}

// Update handles scrolling and hands tab focus back to the wizard.
func (s *ReviewStep) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "tab", "enter":
			return func() tea.Msg { return wizard.TabExitForwardMsg{} }
		case "shift+tab":
			return func() tea.Msg { return wizard.TabExitBackwardMsg{} }
		}
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return cmd
}

// View renders the review.
func (s *ReviewStep) View() string {
	return s.viewport.View()
}

// SetSize updates the viewport and re-renders at the new width.
func (s *ReviewStep) SetSize(width, height int) {
	s.width = width
	s.height = height

	s.viewport.SetWidth(width)
	vh := height - 6 // Title, banner and buttons
	if vh < 5 {
		vh = 5
	}
	s.viewport.SetHeight(vh)
	s.viewport.SetContent(renderMarkdown(s.review.Markdown(), width))
}
