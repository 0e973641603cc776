package ui

import (
	"eventbridge/internal/domain"
	"eventbridge/internal/host"
	"eventbridge/internal/player"
)

// InvocationMsg wraps a listener call for the UI
type InvocationMsg struct {
	Invocation domain.Invocation
}

// PlaybackDoneMsg is sent once the script has finished or failed
type PlaybackDoneMsg struct {
	Err   error
	Stats []player.EventCount
}

// pagerMsg reports the result of showing history in the pager
type pagerMsg struct {
	err error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}

// ProgramObserver forwards listener calls into a running program
type ProgramObserver struct {
	program host.Sender
}

// NewProgramObserver creates an observer sending to p
func NewProgramObserver(p host.Sender) *ProgramObserver {
	return &ProgramObserver{program: p}
}

func (o *ProgramObserver) ListenerCalled(inv domain.Invocation) {
	o.program.Send(InvocationMsg{Invocation: inv})
}
