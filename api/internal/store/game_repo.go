package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"wiki-bot/api/internal/game"
)

var ErrNotFound = sql.ErrNoRows

// GameRepo is an append-only audit log of played turns. It is never read
// to resume a game; finished and aborted games stay queryable for stats.
type GameRepo struct{ DB *sql.DB }

func NewGameRepo(db *sql.DB) *GameRepo { return &GameRepo{DB: db} }

// EnsureSchema creates the turn log table when it does not exist yet.
func (r *GameRepo) EnsureSchema(ctx context.Context) error {
	const q = `
create table if not exists wiki_turns (
  id              bigserial primary key,
  created_at      timestamptz not null default now(),
  chat_id         bigint not null default 0,
  game_id         text not null,
  turn            int not null,
  start_topic     text not null,
  target_topic    text not null,
  current_topic   text not null,
  current_summary text not null default '',
  next_topic      text not null,
  confidence      double precision not null default 0,
  elapsed_ms      bigint not null default 0
)`
	_, err := r.DB.ExecContext(ctx, q)
	return err
}

func (r *GameRepo) InsertTurn(ctx context.Context, chatID int64, gameID string, rec game.TurnRecord) error {
	const q = `
insert into wiki_turns (
  chat_id, game_id, turn, start_topic, target_topic,
  current_topic, current_summary, next_topic, confidence, elapsed_ms
) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.DB.ExecContext(ctx, q,
		chatID, gameID, rec.Turn, rec.StartTopic, rec.TargetTopic,
		rec.CurrentTopic, rec.CurrentSummary, rec.NextTopic, rec.Confidence,
		rec.Elapsed.Milliseconds(),
	)
	return err
}

// ListTurns returns the turns of one game in play order.
func (r *GameRepo) ListTurns(ctx context.Context, gameID string) ([]game.TurnRecord, error) {
	const q = `
select turn, start_topic, target_topic, current_topic, current_summary,
       next_topic, confidence, elapsed_ms
from wiki_turns
where game_id = $1
order by turn asc`
	rows, err := r.DB.QueryContext(ctx, q, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []game.TurnRecord
	for rows.Next() {
		var rec game.TurnRecord
		var elapsedMs int64
		if err := rows.Scan(&rec.Turn, &rec.StartTopic, &rec.TargetTopic,
			&rec.CurrentTopic, &rec.CurrentSummary, &rec.NextTopic,
			&rec.Confidence, &elapsedMs); err != nil {
			return nil, err
		}
		rec.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PurgeOlderThan trims the log so the table does not grow without bound.
func (r *GameRepo) PurgeOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, errors.New("olderThan must be > 0")
	}
	cutoff := time.Now().Add(-olderThan)
	const q = `delete from wiki_turns where created_at < $1`
	res, err := r.DB.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	aff, _ := res.RowsAffected()
	return aff, nil
}

// TurnSink binds a repo to one running game so it satisfies game.Reporter.
type TurnSink struct {
	Repo   *GameRepo
	ChatID int64
	GameID string
}

func (s TurnSink) RecordTurn(ctx context.Context, rec game.TurnRecord) error {
	return s.Repo.InsertTurn(ctx, s.ChatID, s.GameID, rec)
}
