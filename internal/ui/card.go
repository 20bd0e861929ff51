package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/infblueocean/feello/internal/deck"
	"github.com/infblueocean/feello/internal/question"
)

// renderCard draws a question card of the given outer width.
func renderCard(q question.Question, width int) string {
	style := cardStyle(q.Theme)
	inner := width - style.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}

	header := CategoryBadge.Render(q.Category)
	if q.Tagline != "" {
		header += "  " + TaglineStyle.Render(q.Tagline)
	}
	body := QuestionStyle.Width(inner).Render(q.Text)

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", body)
	return style.
		Width(inner + style.GetHorizontalPadding()).
		Height(cardHeight - style.GetVerticalFrameSize()).
		Render(content)
}

// renderBackCard draws the edge of the card waiting behind the front one.
func renderBackCard(q *question.Question, dir deck.Direction, width int) string {
	if q == nil {
		return ""
	}
	label := "Suivant →"
	if dir == deck.DirBackward {
		label = "← Précédent"
	}
	style := backCardStyle(q.Theme)
	inner := max(10, width-4-style.GetHorizontalFrameSize())
	line := label + "  " + q.Category + "  " + truncateRunes(q.Tagline, inner-utf8.RuneCountInString(label)-6)
	return style.Padding(0, 2).Width(inner + 4).Render(line)
}

// renderDeck lays out the front card, shifted by the slide offset, above
// the back card, centred in the available area.
func renderDeck(s deck.Snapshot, dir deck.Direction, offset, width, height int) string {
	if s.Current == nil {
		return ""
	}
	cw := min(cardWidth, max(20, width-4))
	front := renderCard(*s.Current, cw)
	back := renderBackCard(deck.BackCard(s, dir), dir, cw)

	stack := lipgloss.JoinVertical(lipgloss.Center, front, back)
	left := max(0, (width-lipgloss.Width(stack))/2+offset)
	stack = lipgloss.NewStyle().MarginLeft(left).Render(stack)
	return lipgloss.PlaceVertical(max(height, lipgloss.Height(stack)), lipgloss.Center, stack)
}

// renderEnd is the end-of-deck screen: reached the last card, or no content
// at all.
func renderEnd(s deck.Snapshot, width, height int) string {
	var lines []string
	if s.Empty {
		lines = append(lines,
			EndTitle.Render("Aucune question"),
			"",
			StatusBarText.Render("The collection is empty."),
		)
	} else {
		lines = append(lines,
			EndTitle.Render("Fin du paquet"),
			"",
			StatusBarText.Render("Every card of this deck has been played."),
		)
		if s.Length > 0 {
			lines = append(lines, StatusBarText.Render("← to see the last card again."))
		}
	}
	lines = append(lines, "", StatusBarKey.Render("r")+StatusBarText.Render(" new game"))
	box := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// renderModal is the reset confirmation.
func renderModal(width, height int) string {
	box := ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		EndTitle.Render("Nouvelle partie ?"),
		"",
		"Seen questions will be forgotten.",
		"",
		StatusBarKey.Render("y")+StatusBarText.Render(" confirm   ")+
			StatusBarKey.Render("n")+StatusBarText.Render(" cancel"),
	))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// truncateRunes shortens s to at most n runes, ending with an ellipsis.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
