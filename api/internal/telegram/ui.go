package telegram

import (
	"fmt"
	"strings"

	"wiki-bot/api/internal/game"
)

// esc is light Markdown escaping for article titles.
func esc(s string) string {
	s = strings.ReplaceAll(s, "`", "'")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "[", "\\[")
	return s
}

func formatTurn(rec game.TurnRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "♟ *Turn %d*\n", rec.Turn)
	fmt.Fprintf(&b, "Current: %s\n", esc(rec.CurrentTopic))
	fmt.Fprintf(&b, "Next: %s", esc(rec.NextTopic))
	if rec.Confidence >= 1.0 {
		b.WriteString(" (direct link!)")
	} else {
		fmt.Fprintf(&b, " (match %.2f)", rec.Confidence)
	}
	fmt.Fprintf(&b, "\nTarget: %s", esc(rec.TargetTopic))
	return b.String()
}

func formatResult(s *game.Session, turns int) string {
	return fmt.Sprintf("🏁 Reached *%s* from *%s* in %d turn(s).",
		esc(s.Target), esc(s.Start), turns)
}
