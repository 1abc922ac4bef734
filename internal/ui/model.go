package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/0xlemi/yinnote/internal/pitch"
	"github.com/0xlemi/yinnote/internal/tuner"
)

// Constants for UI behavior
const (
	// How long the last note stays on screen after the pitch is lost
	noteHoldDuration = 500 * time.Millisecond

	tickInterval = 100 * time.Millisecond
)

var (
	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(2).
			PaddingRight(2).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	markerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	// Note colors
	noteColors = map[string]string{
		"C": "#E8D6B0", // Beige
		"D": "#A020F0", // Purple
		"E": "#FFFF00", // Yellow
		"F": "#FFA500", // Orange
		"G": "#00FF00", // Green
		"A": "#FF0000", // Red
		"B": "#0000FF", // Blue
	}
)

// naturalStyle is the badge for a note without accidental.
func naturalStyle(name string) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color(noteColors[name])).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#333333")).
		Padding(2, 4).
		MarginBottom(1)
}

// halfStyle is one side of the split badge used for sharps.
func halfStyle(color string, left bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color(color)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#333333")).
		BorderTop(true).
		BorderBottom(true).
		PaddingTop(2).
		PaddingBottom(2)
	if left {
		return s.BorderLeft(true).BorderRight(false).PaddingLeft(2).PaddingRight(1)
	}
	return s.BorderLeft(false).BorderRight(true).PaddingLeft(1).PaddingRight(2)
}

// Get the next natural note (for sharp note colors)
func nextNatural(note string) string {
	switch note {
	case "C":
		return "D"
	case "D":
		return "E"
	case "E":
		return "F"
	case "F":
		return "G"
	case "G":
		return "A"
	case "A":
		return "B"
	default:
		return "C"
	}
}

// Model represents the UI state
type Model struct {
	title      string
	note       *pitch.Note
	confidence float64
	noteTime   time.Time
	level      float64
	width      int
	height     int
	now        func() time.Time
}

// NewModel creates a new UI model
func NewModel(title string) Model {
	return Model{
		title: title,
		level: -100,
		now:   time.Now,
	}
}

// TickMsg represents a timer tick
type TickMsg time.Time

// ReadingMsg carries a tuner reading to the UI.
type ReadingMsg tuner.Reading

// ClearNoteMsg removes the displayed note immediately.
type ClearNoteMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Init initializes the UI model
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update updates the UI model based on messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case TickMsg:
		if m.note != nil && time.Time(msg).Sub(m.noteTime) > noteHoldDuration {
			m.note = nil
		}
		return m, tick()

	case ReadingMsg:
		m.level = msg.Level.DB
		if msg.Note != nil {
			note := *msg.Note
			m.note = &note
			m.confidence = msg.Confidence
			m.noteTime = m.now()
		}

	case ClearNoteMsg:
		m.note = nil
	}

	return m, nil
}

func (m Model) badge(n pitch.Note) string {
	if !strings.HasSuffix(n.Name, "#") {
		return naturalStyle(n.Name).Render(n.String())
	}

	base := n.Name[:1]
	left := halfStyle(noteColors[base], true).Render(base)
	right := halfStyle(noteColors[nextNatural(base)], false).Render(fmt.Sprintf("#%d", n.Octave))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) indicatorWidth() int {
	if m.width > 10 {
		return m.width - 4
	}
	return 40
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	if m.note != nil {
		b.WriteString(m.badge(*m.note))
		b.WriteString("\n")
		b.WriteString(Indicator(m.note.Index, m.indicatorWidth(), markerStyle))
		b.WriteString("\n")
		info := fmt.Sprintf("Frequency: %.2f Hz | Cents: %+.1f | Confidence: %.2f",
			m.note.Frequency, m.note.Cents, m.confidence)
		b.WriteString(infoStyle.Render(info))
	} else {
		b.WriteString(infoStyle.Render("Listening for audio..."))
	}

	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Level: %.1f dB", m.level)))
	b.WriteString("\n\n")
	b.WriteString(infoStyle.Render("Press q to quit"))

	return b.String()
}
