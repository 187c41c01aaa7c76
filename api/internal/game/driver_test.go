package game

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"wiki-bot/api/internal/wiki"
)

type fakeResolver map[string]string

func (f fakeResolver) Resolve(_ context.Context, raw string) (string, error) {
	if got, ok := f[raw]; ok {
		return got, nil
	}
	return "", fmt.Errorf("%w: %q", wiki.ErrNotFound, raw)
}

func TestNewSessionResolvesTopics(t *testing.T) {
	resolver := fakeResolver{"test": "Test", "christmas": "Christmas"}

	s, err := NewSession(context.Background(), resolver, "test", "christmas")
	require.NoError(t, err)
	require.Equal(t, "Test", s.Start)
	require.Equal(t, "Christmas", s.Target)
	require.Equal(t, "Test", s.Current)
	require.Empty(t, s.Visited)
	require.Equal(t, 1, s.Turn)
}

func TestNewSessionRejectsSameTopic(t *testing.T) {
	resolver := fakeResolver{"xmas": "Christmas", "christmas": "Christmas"}

	_, err := NewSession(context.Background(), resolver, "xmas", "christmas")
	require.ErrorIs(t, err, ErrSameTopic)
}

func TestNewSessionUnknownTopic(t *testing.T) {
	resolver := fakeResolver{"test": "Test"}

	_, err := NewSession(context.Background(), resolver, "test", "gibberish")
	require.ErrorIs(t, err, wiki.ErrNotFound)
}

func TestRunWinsInOneTurn(t *testing.T) {
	pages := fakePages{
		"Test": {Title: "Test", Summary: "about tests", Links: []string{"Chocolate", "Christmas"}},
	}
	llm := &fakeLLM{replies: []string{"unused"}}
	d := &Driver{Engine: NewTurnEngine(pages, llm), MaxTurns: 10, Logger: zerolog.Nop()}

	s := &Session{Start: "Test", Target: "Christmas", Current: "Test", Visited: map[string]bool{}, Turn: 1}
	log, err := d.Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, log, 1)
	require.Equal(t, "Christmas", log[0].NextTopic)
	require.Equal(t, 1.0, log[0].Confidence)
	require.Equal(t, "Christmas", s.Current)
	require.Zero(t, llm.calls)
}

func TestRunLogsTurnsInOrder(t *testing.T) {
	pages := fakePages{
		"A": {Title: "A", Links: []string{"B"}},
		"B": {Title: "B", Links: []string{"C"}},
		"C": {Title: "C", Links: []string{"D"}},
	}
	llm := &fakeLLM{replies: []string{"Next topic=B", "Next topic=C"}}
	d := &Driver{Engine: NewTurnEngine(pages, llm), MaxTurns: 10, Logger: zerolog.Nop()}

	s := &Session{Start: "A", Target: "D", Current: "A", Visited: map[string]bool{}, Turn: 1}
	log, err := d.Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, log, 3)
	for i, rec := range log {
		require.Equal(t, i+1, rec.Turn)
		require.Equal(t, "A", rec.StartTopic)
		require.Equal(t, "D", rec.TargetTopic)
	}
	require.Equal(t, []string{"A", "B", "C"}, []string{log[0].CurrentTopic, log[1].CurrentTopic, log[2].CurrentTopic})
	// two model turns plus one short-circuit
	require.Equal(t, 2, llm.calls)
}

func TestRunStopsAtTurnLimit(t *testing.T) {
	pages := fakePages{
		"P1": {Title: "P1", Links: []string{"P2"}},
		"P2": {Title: "P2", Links: []string{"P3"}},
		"P3": {Title: "P3", Links: []string{"P4"}},
		"P4": {Title: "P4", Links: []string{"P5"}},
	}
	llm := &fakeLLM{replies: []string{"Next topic=P2", "Next topic=P3", "Next topic=P4"}}
	d := &Driver{Engine: NewTurnEngine(pages, llm), MaxTurns: 3, Logger: zerolog.Nop()}

	s := &Session{Start: "P1", Target: "Far away", Current: "P1", Visited: map[string]bool{}, Turn: 1}
	log, err := d.Run(context.Background(), s)
	require.ErrorIs(t, err, ErrTurnLimit)
	require.Len(t, log, 3)
}

func TestRunHonoursCancellation(t *testing.T) {
	pages := fakePages{"A": {Title: "A", Links: []string{"B"}}}
	llm := &fakeLLM{replies: []string{"Next topic=B"}}
	d := &Driver{Engine: NewTurnEngine(pages, llm), Logger: zerolog.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Session{Start: "A", Target: "Z", Current: "A", Visited: map[string]bool{}, Turn: 1}
	_, err := d.Run(ctx, s)
	require.ErrorIs(t, err, context.Canceled)
}

func TestConsoleReporterOutput(t *testing.T) {
	var buf bytes.Buffer
	rep := ConsoleReporter{W: &buf}

	err := rep.RecordTurn(context.Background(), TurnRecord{
		Turn:         1,
		StartTopic:   "Lake_Vostok",
		TargetTopic:  "Christmas",
		CurrentTopic: "Lake_Vostok",
		NextTopic:    "Antarctica",
	})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "--------------------------------------------------")
	require.Contains(t, out, "Turn: 1")
	require.Contains(t, out, "Start topic: Lake Vostok", "underscores are replaced for readability")
	require.Contains(t, out, "Next topic: Antarctica")
	require.Contains(t, out, "Target topic: Christmas")
}
