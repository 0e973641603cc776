// Package ui is the interactive monitor: a bubbletea program that acts as the
// host document for bridged notifications and shows every listener call.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"eventbridge/internal/domain"
	"eventbridge/internal/host"
	"eventbridge/internal/ui/views"
)

// Options configures the monitor model
type Options struct {
	Title   string // shown next to the app name, usually the script path
	Bridge  bool
	History int
	Logger  *zerolog.Logger
}

// Model represents the monitor state
type Model struct {
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	styles   *views.Styles
	log      zerolog.Logger

	title   string
	bridge  bool
	history int
	entries []views.Entry

	internalCalls int
	externalCalls int
	notifications int

	status      string
	playing     bool
	inPagerMode bool
	ready       bool
	width       int
	height      int

	// Program reference for terminal management
	program terminalOwner
}

// NewModel creates the monitor model
func NewModel(opts Options) *Model {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	if opts.History <= 0 {
		opts.History = 500
	}
	return &Model{
		help:    help.New(),
		keys:    newKeyMap(),
		styles:  views.NewStyles(),
		log:     logger.With().Str("component", "monitor").Logger(),
		title:   opts.Title,
		bridge:  opts.Bridge,
		history: opts.History,
		status:  "playing script",
		playing: true,
	}
}

// SetProgram sets the program reference used to hand the terminal to the pager
func (m *Model) SetProgram(p *tea.Program) {
	if p == nil {
		m.program = nil
		return
	}
	m.program = p
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case InvocationMsg:
		if msg.Invocation.Kind == domain.KindInternal {
			m.internalCalls++
		} else {
			m.externalCalls++
		}
		m.append(views.InvocationEntry(msg.Invocation))
		return m, nil

	case host.NotificationMsg:
		m.notifications++
		m.append(views.NotificationEntry(msg.Notification))
		return m, nil

	case PlaybackDoneMsg:
		m.playing = false
		if msg.Err != nil {
			m.status = fmt.Sprintf("playback failed: %v", msg.Err)
			m.append(views.Entry{Kind: views.EntryError, Text: m.status})
			return m, nil
		}
		parts := make([]string, len(msg.Stats))
		for i, s := range msg.Stats {
			parts[i] = fmt.Sprintf("%s×%d", s.Event, s.Count)
		}
		m.status = "playback finished"
		m.append(views.Entry{Kind: views.EntryInfo, Text: "playback finished: " + strings.Join(parts, " ")})
		return m, nil

	case pagerMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("pager failed")
			m.status = fmt.Sprintf("pager failed: %v", msg.err)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Clear):
		m.entries = nil
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Pager):
		return m, m.openPager()
	}
	// scrolling keys are handled by the viewport's own key map
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// append adds an entry, dropping the oldest past the history limit, and
// follows the tail if the view was already at the bottom.
func (m *Model) append(e views.Entry) {
	m.entries = append(m.entries, e)
	if over := len(m.entries) - m.history; over > 0 {
		m.entries = append([]views.Entry(nil), m.entries[over:]...)
	}
	atBottom := m.viewport.AtBottom()
	m.refresh()
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m *Model) refresh() {
	lines := make([]string, len(m.entries))
	for i, e := range m.entries {
		lines[i] = m.styles.Render(e)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

const chromeHeight = 6 // header, counters, box border, status, help

func (m *Model) resize() {
	w := m.width - 2
	h := m.height - chromeHeight
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if !m.ready {
		m.viewport = viewport.New(w, h)
		m.ready = true
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}
	m.help.Width = m.width
	m.refresh()
	m.viewport.GotoBottom()
}

func (m *Model) plainHistory() string {
	var b strings.Builder
	for _, e := range m.entries {
		b.WriteString(e.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// View implements tea.Model
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}

	bridge := m.styles.Dim.Render("bridge: off")
	if m.bridge {
		bridge = m.styles.Notification.Render("bridge: on (deprecated)")
	}
	header := m.styles.Title.Render("eventbridge monitor")
	if m.title != "" {
		header += m.styles.Dim.Render("  " + m.title)
	}
	header += "  " + bridge

	counters := m.styles.Counters.Render(fmt.Sprintf("internal %d  external %d  notifications %d",
		m.internalCalls, m.externalCalls, m.notifications))

	body := ""
	if m.ready {
		body = m.styles.LogBox.Render(m.viewport.View())
	}

	statusStyle := m.styles.Status
	if !m.playing {
		statusStyle = statusStyle.Foreground(lipgloss.Color("78"))
	}
	if strings.HasPrefix(m.status, "playback failed") || strings.HasPrefix(m.status, "pager failed") {
		statusStyle = m.styles.Status.Foreground(lipgloss.Color("203"))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		counters,
		body,
		statusStyle.Render(m.status),
		m.styles.Help.Render(m.help.View(m.keys)),
	)
}
