package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/infblueocean/feello/internal/deck"
	"github.com/infblueocean/feello/internal/question"
)

// renderStatusBar draws the bottom line: deck position, the theme chips
// numbered like their toggle keys, the collection source and key hints.
func (a App) renderStatusBar(s deck.Snapshot) string {
	var left []string

	if a.loaded && !s.Empty {
		left = append(left, StatusBarKey.Render(fmt.Sprintf("%d", s.Remaining))+
			StatusBarText.Render(fmt.Sprintf(" left · %d/%d seen", s.SeenCount, s.Total)))
	}

	var chips []string
	for i, t := range question.AllThemes() {
		chips = append(chips, ThemeChip(t, slices.Contains(s.Themes, t)).Render(fmt.Sprintf("%d", i+1)))
	}
	left = append(left, strings.Join(chips, ""))

	if s.Fallback {
		left = append(left, StatusBarText.Render("replaying"))
	}
	if a.source == SourceSeed {
		left = append(left, StatusBarText.Render("offline"))
	}

	hints := StatusBarKey.Render("?") + StatusBarText.Render(":help ") +
		StatusBarKey.Render("q") + StatusBarText.Render(":quit")

	content := strings.Join(left, "  ")
	gap := a.width - lipgloss.Width(content) - lipgloss.Width(hints) - StatusBar.GetHorizontalFrameSize()
	if gap > 0 {
		content += strings.Repeat(" ", gap) + hints
	}
	return StatusBar.Width(a.width).Render(content)
}
