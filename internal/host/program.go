package host

import (
	tea "github.com/charmbracelet/bubbletea"

	"eventbridge/internal/domain"
)

// NotificationMsg carries a bridged notification into a bubbletea program
type NotificationMsg struct {
	Notification domain.Notification
}

// Sender is the part of *tea.Program the host needs
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramHost delivers notifications to a running terminal program, which
// plays the role of the document its model observes.
type ProgramHost struct {
	Globals
	program Sender
}

// NewProgramHost creates a host for p. p may be attached later with Attach
// when the program is built after the bus.
func NewProgramHost(p Sender) *ProgramHost {
	return &ProgramHost{Globals: NewGlobals(), program: p}
}

// Attach sets the program notifications are sent to
func (h *ProgramHost) Attach(p Sender) { h.program = p }

func (h *ProgramHost) EmitHostNotification(n domain.Notification) {
	if h.program == nil {
		return
	}
	h.program.Send(NotificationMsg{Notification: n})
}
