package game

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Reporter receives each completed turn. Errors are logged and do not
// stop the game: a sink failure must not waste the model calls made so far.
type Reporter interface {
	RecordTurn(ctx context.Context, rec TurnRecord) error
}

// Driver owns the loop: mark visited, choose next, log, advance,
// stop when the target is reached or MaxTurns is exceeded.
type Driver struct {
	Engine    *TurnEngine
	MaxTurns  int
	Reporters []Reporter
	Logger    zerolog.Logger
}

// Run plays the session to the end and returns the ordered turn log.
// The log is also returned on error, covering the turns that completed.
func (d *Driver) Run(ctx context.Context, s *Session) ([]TurnRecord, error) {
	var log []TurnRecord

	for {
		if err := ctx.Err(); err != nil {
			return log, err
		}
		if d.MaxTurns > 0 && s.Turn > d.MaxTurns {
			return log, fmt.Errorf("%w (%d)", ErrTurnLimit, d.MaxTurns)
		}

		turnStart := time.Now()
		s.Visited[s.Current] = true

		turn, err := d.Engine.ChooseNext(ctx, s)
		if err != nil {
			return log, fmt.Errorf("turn %d at %q: %w", s.Turn, s.Current, err)
		}

		rec := TurnRecord{
			Turn:           s.Turn,
			StartTopic:     s.Start,
			TargetTopic:    s.Target,
			CurrentTopic:   s.Current,
			CurrentSummary: turn.Summary,
			NextTopic:      turn.Next,
			Confidence:     turn.Confidence,
			Elapsed:        time.Since(turnStart),
		}
		log = append(log, rec)

		for _, r := range d.Reporters {
			if err := r.RecordTurn(ctx, rec); err != nil {
				d.Logger.Warn().Err(err).Int("turn", rec.Turn).Msg("turn reporter failed")
			}
		}

		s.Current = turn.Next
		if s.Current == s.Target {
			return log, nil
		}
		s.Turn++
	}
}
