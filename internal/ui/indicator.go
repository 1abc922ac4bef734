package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Display range of the indicator: E2 to C6 in mapped note indices.
const (
	IndicatorLow  = 40
	IndicatorHigh = 84
)

// IndicatorPosition clamps index into [lo, hi] and normalizes it to [0, 1].
func IndicatorPosition(index, lo, hi int) float64 {
	if hi <= lo {
		return 0
	}
	index = min(max(index, lo), hi)
	return float64(index-lo) / float64(hi-lo)
}

// Indicator draws a horizontal track of width cells with a marker at the
// position of note index.
func Indicator(index, width int, marker lipgloss.Style) string {
	if width < 2 {
		width = 2
	}
	pos := int(IndicatorPosition(index, IndicatorLow, IndicatorHigh)*float64(width-1) + 0.5)

	return strings.Repeat("─", pos) + marker.Render("●") + strings.Repeat("─", width-1-pos)
}
