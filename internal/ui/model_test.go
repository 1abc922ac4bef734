package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/0xlemi/yinnote/internal/audio"
	"github.com/0xlemi/yinnote/internal/pitch"
	"github.com/0xlemi/yinnote/internal/tuner"
)

func reading(t *testing.T, hz float64) ReadingMsg {
	t.Helper()
	n, err := pitch.DefaultMapper().Note(hz)
	if err != nil {
		t.Fatal(err)
	}
	return ReadingMsg(tuner.Reading{
		Level: audio.Level{DB: -12},
		Detection: pitch.Detection{
			Result: pitch.Result{Found: true, Frequency: hz, Confidence: 0.97},
			Note:   &n,
		},
	})
}

func fixedModel(at time.Time) Model {
	m := NewModel("yinnote")
	m.now = func() time.Time { return at }
	return m
}

func TestModelShowsReading(t *testing.T) {
	m := fixedModel(time.Unix(100, 0))

	next, _ := m.Update(reading(t, 440))
	view := next.View()

	for _, want := range []string{"A3", "Frequency: 440.00 Hz", "Confidence: 0.97", "Level: -12.0 dB"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModelSharpBadge(t *testing.T) {
	m := fixedModel(time.Unix(100, 0))

	// 932.33 Hz maps to A#4 after octave correction.
	next, _ := m.Update(reading(t, 932.33))
	if view := next.View(); !strings.Contains(view, "#4") {
		t.Fatalf("sharp badge missing:\n%s", view)
	}
}

func TestModelHoldsNote(t *testing.T) {
	start := time.Unix(100, 0)
	m := fixedModel(start)

	next, _ := m.Update(reading(t, 440))

	next, cmd := next.Update(TickMsg(start.Add(noteHoldDuration / 2)))
	if cmd == nil {
		t.Fatal("tick did not schedule the next tick")
	}
	if !strings.Contains(next.View(), "A3") {
		t.Fatal("note cleared before the hold elapsed")
	}

	next, _ = next.Update(TickMsg(start.Add(noteHoldDuration + time.Millisecond)))
	if view := next.View(); !strings.Contains(view, "Listening for audio...") {
		t.Fatalf("note not cleared after hold:\n%s", view)
	}
}

func TestModelReadingWithoutNoteKeepsLast(t *testing.T) {
	m := fixedModel(time.Unix(100, 0))
	next, _ := m.Update(reading(t, 440))

	next, _ = next.Update(ReadingMsg(tuner.Reading{Silent: true, Level: audio.Level{DB: -80}}))
	view := next.View()
	if !strings.Contains(view, "A3") || !strings.Contains(view, "Level: -80.0 dB") {
		t.Fatalf("view after silent reading:\n%s", view)
	}

	next, _ = next.Update(ClearNoteMsg{})
	if strings.Contains(next.View(), "Frequency:") {
		t.Fatal("ClearNoteMsg left the note on screen")
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel("yinnote")
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%s: no command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s: command did not quit", key)
		}
	}
}

func TestIndicatorPosition(t *testing.T) {
	tests := []struct {
		index int
		want  float64
	}{
		{IndicatorLow - 5, 0},
		{IndicatorLow, 0},
		{(IndicatorLow + IndicatorHigh) / 2, 0.5},
		{IndicatorHigh, 1},
		{IndicatorHigh + 12, 1},
	}
	for _, tt := range tests {
		if got := IndicatorPosition(tt.index, IndicatorLow, IndicatorHigh); got != tt.want {
			t.Errorf("IndicatorPosition(%d) = %v, want %v", tt.index, got, tt.want)
		}
	}
	if got := IndicatorPosition(50, 10, 10); got != 0 {
		t.Errorf("empty range = %v, want 0", got)
	}
}

func TestIndicatorWidth(t *testing.T) {
	for _, width := range []int{2, 20, 76} {
		for _, index := range []int{0, IndicatorLow, 57, IndicatorHigh, 127} {
			if got := lipgloss.Width(Indicator(index, width, markerStyle)); got != width {
				t.Fatalf("Indicator(%d, %d) width = %d", index, width, got)
			}
		}
	}
	if got := lipgloss.Width(Indicator(57, 0, markerStyle)); got != 2 {
		t.Fatalf("minimum width = %d, want 2", got)
	}
}
