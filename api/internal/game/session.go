package game

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSameTopic      = errors.New("start and target topics are the same")
	ErrNoCandidates   = errors.New("no unvisited links on the current page")
	ErrMalformedReply = errors.New("model reply has no '=' delimiter")
	ErrNoMatch        = errors.New("no candidate close enough to the model proposal")
	ErrTurnLimit      = errors.New("turn limit reached")
)

// TopicResolver turns a raw user string into a canonical article title;
// an empty string means "pick a random article".
type TopicResolver interface {
	Resolve(ctx context.Context, raw string) (string, error)
}

// Session is the mutable state of one game.
type Session struct {
	Start   string
	Target  string
	Current string
	Visited map[string]bool
	Turn    int
}

// NewSession resolves both topics and checks they are distinct.
func NewSession(ctx context.Context, resolver TopicResolver, start, target string) (*Session, error) {
	startTopic, err := resolver.Resolve(ctx, start)
	if err != nil {
		return nil, err
	}
	targetTopic, err := resolver.Resolve(ctx, target)
	if err != nil {
		return nil, err
	}
	if startTopic == targetTopic {
		return nil, ErrSameTopic
	}
	return &Session{
		Start:   startTopic,
		Target:  targetTopic,
		Current: startTopic,
		Visited: make(map[string]bool),
		Turn:    1,
	}, nil
}

// TurnRecord is one completed turn; appended to the game log, never mutated.
type TurnRecord struct {
	Turn           int
	StartTopic     string
	TargetTopic    string
	CurrentTopic   string
	CurrentSummary string
	NextTopic      string
	Confidence     float64
	Elapsed        time.Duration
}
