package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

// terminalOwner is the part of *tea.Program needed to hand the terminal
// over to the pager
type terminalOwner interface {
	ReleaseTerminal() error
	RestoreTerminal() error
	Send(msg tea.Msg)
}

// showInPager shows content using ov pager
func showInPager(program terminalOwner, content string) error {
	if program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// openPager returns a command that pauses rendering while ov owns the terminal
func (m *Model) openPager() tea.Cmd {
	program := m.program
	content := m.plainHistory()
	return func() tea.Msg {
		if program == nil {
			return pagerMsg{err: fmt.Errorf("program not set")}
		}
		program.Send(pauseRenderingMsg{})
		err := showInPager(program, content)
		program.Send(resumeRenderingMsg{})
		return pagerMsg{err: err}
	}
}
