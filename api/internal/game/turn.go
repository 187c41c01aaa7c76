package game

import (
	"context"
	"fmt"
	"strings"

	"wiki-bot/api/internal/util"
	"wiki-bot/api/internal/wiki"
)

const maxCandidates = 25

// PageFetcher is the slice of the wiki client a turn needs.
type PageFetcher interface {
	GetPage(ctx context.Context, title string) (wiki.Page, error)
}

// Completer is the slice of an llm.Engine a turn needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Turn is the outcome of one move.
type Turn struct {
	Next       string
	Confidence float64
	Summary    string
}

type TurnEngine struct {
	pages PageFetcher
	llm   Completer
}

func NewTurnEngine(pages PageFetcher, llm Completer) *TurnEngine {
	return &TurnEngine{pages: pages, llm: llm}
}

// ChooseNext picks the next topic from the current page of the session.
// When the target is directly linked it is returned with confidence 1.0
// and the model is not consulted. Otherwise the model proposes a topic
// and the closest candidate wins, with the similarity ratio as confidence.
func (e *TurnEngine) ChooseNext(ctx context.Context, s *Session) (Turn, error) {
	page, err := e.pages.GetPage(ctx, s.Current)
	if err != nil {
		return Turn{}, err
	}

	candidates := make([]string, 0, maxCandidates)
	for _, link := range page.Links {
		if s.Visited[link] {
			continue
		}
		candidates = append(candidates, link)
		if len(candidates) == maxCandidates {
			break
		}
	}
	if len(candidates) == 0 {
		return Turn{}, fmt.Errorf("%w: %q", ErrNoCandidates, s.Current)
	}

	for _, c := range candidates {
		if c == s.Target {
			return Turn{Next: s.Target, Confidence: 1.0, Summary: page.Summary}, nil
		}
	}

	prompt := buildPrompt(s.Start, s.Target, s.Current, candidates)
	reply, err := e.llm.Complete(ctx, prompt)
	if err != nil {
		return Turn{}, err
	}

	proposal, err := parseReply(reply)
	if err != nil {
		return Turn{}, err
	}

	next, score, err := closestMatch(proposal, candidates)
	if err != nil {
		return Turn{}, err
	}
	return Turn{Next: next, Confidence: score, Summary: page.Summary}, nil
}

// parseReply extracts the proposed topic from "Next topic=<topic>".
// Model output is untrusted: a reply without the delimiter is an
// explicit error, not a crash.
func parseReply(reply string) (string, error) {
	reply = util.StripCodeFences(reply)
	parts := strings.SplitN(reply, "=", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: %q", ErrMalformedReply, util.TruncateRunes(reply, 120))
	}
	proposal := strings.TrimSpace(parts[1])
	if proposal == "" {
		return "", fmt.Errorf("%w: empty topic in %q", ErrMalformedReply, util.TruncateRunes(reply, 120))
	}
	return proposal, nil
}
