package cli

import (
	"fmt"
	"strings"

	"zeno/internal/models"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	colorBlue   = lipgloss.Color("#83a598")
	colorDim    = lipgloss.Color("#928374")
	colorHeader = lipgloss.Color("#fe8019")
)

var (
	styleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	styleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	styleRed    = lipgloss.NewStyle().Foreground(colorRed)
	styleBlue   = lipgloss.NewStyle().Foreground(colorBlue)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleHeader = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	styleBold   = lipgloss.NewStyle().Bold(true)
	styleBox    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

func header(text string) string {
	line := strings.Repeat("─", lipgloss.Width(text))
	return fmt.Sprintf("%s\n%s", styleHeader.Render(text), styleDim.Render(line))
}

func priorityStyle(p models.Priority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return styleRed
	case models.PriorityMedium:
		return styleYellow
	default:
		return styleDim
	}
}

func statusMark(s models.Status) string {
	switch s {
	case models.StatusDone:
		return styleGreen.Render("✔")
	case models.StatusInProgress:
		return styleBlue.Render("◐")
	default:
		return styleDim.Render("○")
	}
}

// shortID - первые 8 символов идентификатора.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// progressBar рисует полосу прогресса шириной width.
func progressBar(percent, width int) string {
	filled := percent * width / 100
	return styleGreen.Render(strings.Repeat("█", filled)) + styleDim.Render(strings.Repeat("░", width-filled))
}

func clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func styleFor(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
