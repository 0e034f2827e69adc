package casewizard

import (
	"github.com/mark3labs/casewiz/internal/submit"
)

// messageExpiredMsg is delivered by the banner auto-clear timer.
type messageExpiredMsg struct {
	seq int
}

// autosaveDueMsg is delivered by the periodic autosave timer.
type autosaveDueMsg struct {
	seq int
}

// autosavedMsg reports the outcome of a store write.
type autosavedMsg struct {
	revision uint64
	reason   string
	err      error
}

// submittedMsg reports the outcome of a hand-off to the submitter.
type submittedMsg struct {
	receipt submit.Receipt
	err     error
}

// DescriptionEditedMsg is sent when the external editor returns with new content.
type DescriptionEditedMsg struct {
	Content string
}
