package wizard

// TabExitForwardMsg is sent when Tab is pressed on the last input.
// Parent should move focus to buttons.
type TabExitForwardMsg struct{}

// TabExitBackwardMsg is sent when Shift+Tab is pressed on the first input.
// Parent should move focus to buttons (from end).
type TabExitBackwardMsg struct{}

// SelectionChangedMsg is sent when a Selector moves to a different option.
type SelectionChangedMsg struct {
	ID    string
	Value string
}

// BadgeSelectedMsg is sent when a badge in a BadgeRow is activated, including
// re-activation of the badge that is already selected.
type BadgeSelectedMsg struct {
	ID    string
	Value string
}
