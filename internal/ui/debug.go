package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/infblueocean/feello/internal/otel"
)

// debugPanelChrome is the number of terminal lines consumed by DebugPanel's
// border (top + bottom = 2) and vertical padding (top + bottom = 2).
// Must be updated if DebugPanel style changes.
const debugPanelChrome = 4

// debugOverlay renders the debug panel: per-subsystem counters, the latest
// errors and the most recent events. Returns empty string if ring is nil.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	recent := ring.Last(20)

	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Deck"))
	lines = append(lines, fmt.Sprintf("  Rebuilds:   %d (%d fallback), %d shuffles, %d resets",
		stats[otel.KindDeckRebuild], stats[otel.KindDeckFallback],
		stats[otel.KindDeckShuffle], stats[otel.KindDeckReset]))
	lines = append(lines, fmt.Sprintf("  Deferred:   %d   Finished: %d",
		stats[otel.KindDeckDeferred], stats[otel.KindDeckFinished]))
	lines = append(lines, fmt.Sprintf("  Seen:       %d loads, %d corrupt, %d errors",
		stats[otel.KindSeenLoad], stats[otel.KindSeenCorrupt], stats[otel.KindSeenError]))
	lines = append(lines, fmt.Sprintf("  Store:      %d snapshots, %d writes, %d errors, %d seeds",
		stats[otel.KindStoreSnapshot], stats[otel.KindStoreWrite],
		stats[otel.KindStoreError], stats[otel.KindStoreSeed]))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()))
	lines = append(lines, "")

	if errs := ring.LastOf(3, otel.KindSeenError, otel.KindStoreError, otel.KindStoreTimeout, otel.KindError); len(errs) > 0 {
		lines = append(lines, DebugHeaderStyle.Render("Errors"))
		for _, e := range errs {
			lines = append(lines, fmt.Sprintf("  %6s  %s", formatAge(time.Since(e.Time)), truncateRunes(e.Err, 60)))
		}
		lines = append(lines, "")
	}

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range recent {
		line := fmt.Sprintf("  %6s  %-22s", formatAge(time.Since(e.Time)), string(e.Kind))
		if e.Msg != "" {
			line += "  " + truncateRunes(e.Msg, 40)
		}
		if e.Err != "" {
			line += "  ERR:" + truncateRunes(e.Err, 30)
		}
		if e.QuestionID != "" {
			qid := e.QuestionID
			if len(qid) > 8 {
				qid = qid[:8]
			}
			line += "  q:" + qid
		}
		lines = append(lines, line)
	}

	maxHeight := max(1, height-debugPanelChrome)
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := max(20, min(76, width-4))
	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge formats a duration as a compact human string.
// Handles negative durations from clock skew by clamping to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// debugStatusBar renders the status bar for the debug overlay.
func debugStatusBar(width int) string {
	hint := StatusBarKey.Render("ctrl+d") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + hint)
}
