package game

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// ConsoleReporter prints the per-turn progress block of the verbose mode.
type ConsoleReporter struct {
	W io.Writer
}

func (c ConsoleReporter) RecordTurn(_ context.Context, rec TurnRecord) error {
	lines := []string{
		strings.Repeat("-", 50),
		fmt.Sprintf("Turn: %d", rec.Turn),
		fmt.Sprintf("Start topic: %s", display(rec.StartTopic)),
		fmt.Sprintf("Current topic: %s", display(rec.CurrentTopic)),
		fmt.Sprintf("Next topic: %s", display(rec.NextTopic)),
		fmt.Sprintf("Target topic: %s", display(rec.TargetTopic)),
	}
	_, err := fmt.Fprintln(c.W, strings.Join(lines, "\n"))
	return err
}

func display(topic string) string {
	return strings.ReplaceAll(topic, "_", " ")
}
