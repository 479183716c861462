// Package ui renders live generation progress.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"nxsdl/internal/pipeline"
)

// targetState is what the view knows about one target.
type targetState uint8

const (
	stateQueued targetState = iota
	stateVerifying
	stateGenerating
	stateDone
	stateSkipped
	stateFailed
)

var stateLabels = [...]string{
	stateQueued:     "queued",
	stateVerifying:  "verifying",
	stateGenerating: "generating",
	stateDone:       "done",
	stateSkipped:    "skipped",
	stateFailed:     "error",
}

func (s targetState) String() string {
	if int(s) < len(stateLabels) {
		return stateLabels[s]
	}
	return ""
}

func (s targetState) finished() bool {
	return s >= stateDone
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	stateStyles = map[targetState]lipgloss.Style{
		stateVerifying:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		stateGenerating: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		stateDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		stateFailed:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

const statusWidth = 10

type targetRow struct {
	name    string
	state   targetState
	elapsed time.Duration
	detail  string
}

type progressModel struct {
	title   string
	events  <-chan pipeline.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []targetRow
	byName  map[string]int
	width   int
	done    bool
}

type eventMsg pipeline.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model showing one row per target.
// The model quits once events is closed.
func NewProgressModel(title string, targets []string, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]targetRow, len(targets)),
		byName:  make(map[string]int, len(targets)),
		width:   80,
	}
	for i, name := range targets {
		m.rows[i] = targetRow{name: name}
		m.byName[name] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(pipeline.Event(msg)), m.next())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	lead := m.spinner.View()
	if m.done {
		lead = "done:"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", lead, m.title)))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d/%d targets", m.finished(), len(m.rows))))
	b.WriteString("\n\n")

	lineWidth := max(m.width-statusWidth-4, 20)
	for _, row := range m.rows {
		line := row.name
		if row.elapsed > 0 {
			line += fmt.Sprintf(" (%.1f ms)", float64(row.elapsed)/float64(time.Millisecond))
		}
		if row.detail != "" {
			line += "  " + row.detail
		}
		label := fmt.Sprintf("%*s", statusWidth, row.state)
		if style, ok := stateStyles[row.state]; ok {
			label = style.Render(label)
		} else {
			label = mutedStyle.Render(label)
		}
		fmt.Fprintf(&b, "  %s %s\n", label, truncate(line, lineWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	idx, ok := m.byName[ev.Target]
	if !ok {
		return nil
	}
	row := &m.rows[idx]
	row.state = stateFor(ev.Mode, ev.Status)
	if ev.Elapsed > 0 {
		row.elapsed = ev.Elapsed
	}
	if ev.Err != nil {
		row.detail = ev.Err.Error()
	}
	return m.bar.SetPercent(m.fraction())
}

func (m *progressModel) finished() int {
	n := 0
	for _, row := range m.rows {
		if row.state.finished() {
			n++
		}
	}
	return n
}

// fraction counts a target in progress as half done.
func (m *progressModel) fraction() float64 {
	var total float64
	for _, row := range m.rows {
		switch {
		case row.state.finished():
			total++
		case row.state != stateQueued:
			total += 0.5
		}
	}
	return total / float64(len(m.rows))
}

func stateFor(mode pipeline.Mode, status pipeline.Status) targetState {
	switch status {
	case pipeline.StatusDone:
		return stateDone
	case pipeline.StatusError:
		return stateFailed
	case pipeline.StatusSkipped:
		return stateSkipped
	case pipeline.StatusWorking:
		if mode == pipeline.ModeVerify {
			return stateVerifying
		}
		return stateGenerating
	default:
		return stateQueued
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
