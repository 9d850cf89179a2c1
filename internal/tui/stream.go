// Package tui renders live agent workflow runs in the terminal using
// bubbletea. It shows the event stream in a scrollable viewport with a
// spinner while agents are working.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/flowkit/internal/flow"
)

// eventMsg wraps a run event for the update loop.
type eventMsg struct {
	event flow.Event
}

// streamClosedMsg signals that the event channel was closed.
type streamClosedMsg struct{}

// tickMsg drives periodic redraws while streaming.
type tickMsg time.Time

// StreamModel displays a live workflow event stream.
type StreamModel struct {
	title    string
	events   <-chan flow.Event
	refresh  time.Duration
	buffer   *RingBuffer
	viewport viewport.Model
	spinner  spinner.Model
	done     bool
	err      error
	width    int
	height   int

	// Styles
	titleStyle lipgloss.Style
	agentStyle lipgloss.Style
	toolStyle  lipgloss.Style
	errStyle   lipgloss.Style
	dimStyle   lipgloss.Style
}

// NewStreamModel creates a stream viewer for the given event channel.
func NewStreamModel(title string, events <-chan flow.Event, refresh time.Duration) *StreamModel {
	if refresh <= 0 {
		refresh = 100 * time.Millisecond
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &StreamModel{
		title:   title,
		events:  events,
		refresh: refresh,
		buffer:  NewRingBuffer(DefaultBufferSize),
		spinner: sp,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")),
		agentStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		toolStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")),
		errStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		dimStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}

// Err returns the first error event seen during the run, if any.
func (m *StreamModel) Err() error {
	return m.err
}

// Init starts the spinner and event pump.
func (m *StreamModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForEvent(), m.tick())
}

// waitForEvent reads the next run event off the channel.
func (m *StreamModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg{event: event}
	}
}

func (m *StreamModel) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages.
func (m *StreamModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport = viewport.New(msg.Width, msg.Height-3)
		m.refreshViewport()
		return m, nil

	case eventMsg:
		m.appendEvent(msg.event)
		return m, m.waitForEvent()

	case streamClosedMsg:
		m.done = true
		m.refreshViewport()
		return m, nil

	case tickMsg:
		m.refreshViewport()
		if m.done {
			return m, nil
		}
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// appendEvent formats a run event and adds it to the line buffer.
func (m *StreamModel) appendEvent(event flow.Event) {
	switch event.Type {
	case flow.EventAgentStarted:
		m.buffer.Append(m.agentStyle.Render(fmt.Sprintf("▶ %s", event.Author)))
	case flow.EventAgentDone:
		m.buffer.Append(m.dimStyle.Render(fmt.Sprintf("✓ %s done", event.Author)))
	case flow.EventText:
		for _, line := range strings.Split(event.Content, "\n") {
			m.buffer.Append(fmt.Sprintf("[%s] %s", event.Author, line))
		}
	case flow.EventToolUse:
		m.buffer.Append(m.toolStyle.Render(fmt.Sprintf("  → %s", event.Tool)))
	case flow.EventToolResult:
		m.buffer.Append(m.dimStyle.Render(fmt.Sprintf("  ← %s", firstLine(event.Content))))
	case flow.EventError:
		m.err = event.Error
		m.buffer.Append(m.errStyle.Render(fmt.Sprintf("✗ %s: %v", event.Author, event.Error)))
	case flow.EventDone:
		m.buffer.Append(m.dimStyle.Render("run complete"))
	}
}

// refreshViewport pushes buffered lines into the viewport and scrolls to
// the bottom.
func (m *StreamModel) refreshViewport() {
	if m.width == 0 {
		return
	}
	m.viewport.SetContent(strings.Join(m.buffer.Lines(), "\n"))
	m.viewport.GotoBottom()
}

// View renders the header, event viewport, and footer.
func (m *StreamModel) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var header string
	if m.done {
		header = m.titleStyle.Render(m.title) + m.dimStyle.Render("  (finished, press q to quit)")
	} else {
		header = m.titleStyle.Render(m.title) + "  " + m.spinner.View()
	}

	footer := m.dimStyle.Render(fmt.Sprintf("%d events · q to quit", m.buffer.Count()))

	return header + "\n" + m.viewport.View() + "\n" + footer
}

// RunStream runs the stream viewer until the channel closes and the user
// quits. Returns the first error event from the run, if any.
func RunStream(title string, events <-chan flow.Event, refresh time.Duration) error {
	model := NewStreamModel(title, events, refresh)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return model.Err()
}

// firstLine returns the first line of s.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
