package wizard

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/casewiz/internal/tui/testfixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Text: s}
}

func TestButtonBar_Focus(t *testing.T) {
	t.Parallel()

	bar := NewButtonBar(CreateBackNextButtons(true, "Next →"))
	require.False(t, bar.IsFocused())
	assert.Equal(t, ButtonNone, bar.FocusedButton())

	bar.FocusFirst()
	assert.Equal(t, ButtonBack, bar.FocusedButton())
	require.True(t, bar.FocusNext())
	assert.Equal(t, ButtonNext, bar.FocusedButton())

	// Past the end blurs the bar so the parent can take focus back
	require.False(t, bar.FocusNext())
	assert.False(t, bar.IsFocused())

	require.True(t, bar.FocusPrev(), "FocusPrev from blurred starts at the end")
	assert.Equal(t, ButtonNext, bar.FocusedButton())

	bar.Blur()
	assert.False(t, bar.IsFocused())
}

func TestButtonBar_SkipsDisabled(t *testing.T) {
	t.Parallel()

	bar := NewButtonBar(CreateBackNextButtons(false, "Next →"))
	bar.FocusFirst()
	assert.Equal(t, ButtonNext, bar.FocusedButton())
	require.False(t, bar.FocusPrev())

	bar.FocusLast()
	assert.Equal(t, ButtonNext, bar.FocusedButton())
}

func TestButtonBar_Render(t *testing.T) {
	t.Parallel()

	bar := NewButtonBar(CreateBackNextButtons(true, "Next →"))
	bar.SetLabel(ButtonNext, "Submit")
	out := testfixtures.Plain(bar.Render())
	assert.Contains(t, out, "← Back")
	assert.Contains(t, out, "Submit")
	assert.NotContains(t, out, "Next →")
}

func TestRenderHintBar(t *testing.T) {
	t.Parallel()

	assert.Empty(t, RenderHintBar())
	assert.Empty(t, RenderHintBar("odd"))
	assert.Equal(t, "tab next • esc back", testfixtures.Plain(RenderHintBar("tab", "next", "esc", "back")))
}

func TestSelector(t *testing.T) {
	t.Parallel()

	s := NewSelector("record_type", []Choice{
		{Value: "support", Label: "Technical Support"},
		{Value: "billing", Label: "Billing"},
	})
	assert.Empty(t, s.Value())
	assert.Contains(t, testfixtures.Plain(s.View()), "Select...")

	// Unfocused selectors ignore keys
	assert.Nil(t, s.Update(key("right")))

	s.Focus()
	cmd := s.Update(key("right"))
	require.NotNil(t, cmd)
	assert.Equal(t, SelectionChangedMsg{ID: "record_type", Value: "support"}, cmd())

	s.Update(key("right"))
	assert.Equal(t, "billing", s.Value())
	s.Update(key("right"))
	assert.Equal(t, "support", s.Value(), "wraps around")

	s.Update(key("left"))
	assert.Equal(t, "billing", s.Value())
	assert.Contains(t, testfixtures.Plain(s.View()), "Billing")

	s.SetValue("nope")
	assert.Empty(t, s.Value())

	cmd = s.Update(key("tab"))
	require.NotNil(t, cmd)
	assert.IsType(t, TabExitForwardMsg{}, cmd())
}

func TestBadgeRow(t *testing.T) {
	t.Parallel()

	r := NewBadgeRow("priority", []Badge{
		{Value: "low", Label: "Low", Color: "#a6e3a1"},
		{Value: "medium", Label: "Medium", Color: "#f9e2af"},
		{Value: "high", Label: "High", Color: "#fab387"},
	})
	r.Focus()

	// Moving the cursor does not select
	assert.Nil(t, r.Update(key("right")))
	assert.Empty(t, r.Value())

	cmd := r.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, BadgeSelectedMsg{ID: "priority", Value: "medium"}, cmd())
	assert.Equal(t, "medium", r.Value())

	// Re-selecting the same badge still reports it
	cmd = r.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, "medium", cmd().(BadgeSelectedMsg).Value)

	cmd = r.Update(key("3"))
	require.NotNil(t, cmd)
	assert.Equal(t, "high", r.Value())
	assert.Nil(t, r.Update(key("9")))

	assert.True(t, strings.Contains(testfixtures.Plain(r.View()), "● High"))
}

func TestBanner(t *testing.T) {
	t.Parallel()

	b := NewBanner()
	assert.False(t, b.IsVisible())
	assert.Empty(t, b.View(1, 40))

	b.Show(2, "Please enter a subject")
	assert.True(t, b.IsVisible())
	assert.Empty(t, b.View(1, 40), "banner belongs to step 2")
	assert.Contains(t, testfixtures.Plain(b.View(2, 40)), "Please enter a subject")

	b.Clear()
	assert.Empty(t, b.Text())
	assert.Empty(t, b.View(2, 40))
}
