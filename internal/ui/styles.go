package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/infblueocean/feello/internal/question"
)

// Colors used in the application.
var (
	colorCream     = lipgloss.Color("#FAF3E3")
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorError     = lipgloss.Color("196")
)

// Card dimensions; the front card shrinks to fit small terminals.
const (
	cardWidth  = 44
	cardHeight = 16
)

// cardStyle returns the front card style in the theme's colour.
func cardStyle(t question.Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Color())).
		Background(lipgloss.Color(t.Color())).
		Foreground(colorCream).
		Padding(1, 2)
}

// backCardStyle is the peeking card behind the front one.
func backCardStyle(t question.Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Color())).
		Foreground(colorMuted).
		Padding(1, 2)
}

// CategoryBadge is the big category letter in the card corner.
var CategoryBadge = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorCream)

// TaglineStyle is the small caption under the badge.
var TaglineStyle = lipgloss.NewStyle().
	Italic(true).
	Foreground(colorCream)

// QuestionStyle is the card's main text.
var QuestionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorCream)

// ThemeChip renders one theme in the status bar.
func ThemeChip(t question.Theme, selected bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1)
	if selected {
		return s.Background(lipgloss.Color(t.Color())).Foreground(colorCream)
	}
	return s.Foreground(colorMuted).Strikethrough(true)
}

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true).
	Padding(0, 1)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// ModalStyle frames the reset confirmation.
var ModalStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(colorHighlight).
	Padding(1, 3)

// EndTitle is the headline of the end-of-deck screen.
var EndTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// DebugPanel frames the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(1, 1)

// DebugHeaderStyle for section headers in the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
