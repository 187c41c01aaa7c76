package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"wiki-bot/api/internal/game"
	"wiki-bot/api/internal/llm"
	"wiki-bot/api/internal/store"
	"wiki-bot/api/internal/wiki"
)

type Engines struct {
	Nvidia llm.Engine
	Gemini llm.Engine
}

type Router struct {
	Bot        *tgbotapi.BotAPI
	EngManager *llm.Manager
	Wiki       *wiki.Client
	Repo       *store.GameRepo // nil when no database is configured
	MaxTurns   int
	Logger     zerolog.Logger
}

func (r *Router) HandleUpdate(upd tgbotapi.Update, engines Engines) {
	if upd.Message == nil || !upd.Message.IsCommand() {
		return
	}
	cid := upd.Message.Chat.ID

	switch upd.Message.Command() {
	case "start":
		r.send(cid, "I play the Wiki Game: from one Wikipedia article to another, one link at a time, with an LLM picking the route.\n"+
			"Commands:\n/play <start> | <target>\n/random\n/stop\n/engine {nvidia|gemini} [model]\n/health")
	case "health":
		r.send(cid, "✅ OK")
	case "engine":
		r.handleEngineCommand(cid, upd.Message.CommandArguments(), engines)
	case "play":
		start, target, err := parsePlayArgs(upd.Message.CommandArguments())
		if err != nil {
			r.send(cid, "Usage: /play <start topic> | <target topic>")
			return
		}
		r.startGame(cid, start, target)
	case "random":
		// empty topics mean random picks
		r.startGame(cid, "", "")
	case "stop":
		if stopRunning(cid) {
			r.send(cid, "Game stopped.")
		} else {
			r.send(cid, "No game is running.")
		}
	default:
		r.send(cid, "Unknown command.")
	}
}

func parsePlayArgs(args string) (start, target string, err error) {
	parts := strings.SplitN(args, "|", 2)
	if len(parts) != 2 {
		return "", "", errors.New("expected '<start> | <target>'")
	}
	start = strings.TrimSpace(parts[0])
	target = strings.TrimSpace(parts[1])
	if start == "" || target == "" {
		return "", "", errors.New("empty topic")
	}
	return start, target, nil
}

// handleEngineCommand switches the engine for a chat.
// Formats:
//
//	/engine nvidia [model]
//	/engine gemini [model]
func (r *Router) handleEngineCommand(chatID int64, args string, engines Engines) {
	fields := strings.Fields(strings.TrimSpace(args))
	if len(fields) == 0 {
		cur := r.EngManager.Get(chatID)
		r.send(chatID, "Current engine: "+cur.Name()+" ("+cur.GetModel()+")\nUsage:\n/engine nvidia [model]\n/engine gemini [model]")
		return
	}
	name := strings.ToLower(fields[0])
	var modelArg string
	if len(fields) > 1 {
		modelArg = strings.TrimSpace(fields[1])
	}

	var eng llm.Engine
	switch name {
	case "nvidia":
		eng = engines.Nvidia
	case "gemini":
		eng = engines.Gemini
	default:
		r.send(chatID, "Unknown engine. Available: nvidia | gemini")
		return
	}
	if eng == nil {
		r.send(chatID, "❌ Engine "+name+" is not configured.")
		return
	}
	if modelArg != "" {
		eng.SetModel(modelArg)
	}
	r.EngManager.Set(chatID, eng)
	r.send(chatID, "✅ Engine: "+eng.Name()+" ("+eng.GetModel()+").")
}

// startGame runs one game in the background, streaming each turn into the chat.
func (r *Router) startGame(chatID int64, startArg, targetArg string) {
	ctx, cancel := context.WithCancel(context.Background())
	if !markRunning(chatID, cancel) {
		cancel()
		r.send(chatID, "A game is already running here. /stop it first.")
		return
	}

	eng := r.EngManager.Get(chatID)
	r.send(chatID, "Resolving topics…")

	go func() {
		defer clearRunning(chatID)

		session, err := game.NewSession(ctx, r.Wiki, startArg, targetArg)
		if err != nil {
			r.sendError(chatID, err)
			return
		}
		r.send(chatID, fmt.Sprintf("Playing: %s → %s (engine %s, %s)",
			session.Start, session.Target, eng.Name(), eng.GetModel()))

		reporters := []game.Reporter{turnReporter{r: r, chatID: chatID}}
		if r.Repo != nil {
			gameID := fmt.Sprintf("%d-%d", chatID, time.Now().Unix())
			reporters = append(reporters, store.TurnSink{Repo: r.Repo, ChatID: chatID, GameID: gameID})
		}

		driver := &game.Driver{
			Engine:    game.NewTurnEngine(r.Wiki, eng),
			MaxTurns:  r.MaxTurns,
			Reporters: reporters,
			Logger:    r.Logger,
		}

		log, err := driver.Run(ctx, session)
		if err != nil {
			r.sendError(chatID, err)
			return
		}
		r.sendMarkdown(chatID, formatResult(session, len(log)))
	}()
}

type turnReporter struct {
	r      *Router
	chatID int64
}

func (t turnReporter) RecordTurn(_ context.Context, rec game.TurnRecord) error {
	t.r.sendMarkdown(t.chatID, formatTurn(rec))
	return nil
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := r.Bot.Send(msg); err != nil {
		r.Logger.Warn().Err(err).Int64("chat_id", chatID).Msg("telegram send failed")
	}
}

func (r *Router) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := r.Bot.Send(msg); err != nil {
		r.Logger.Warn().Err(err).Int64("chat_id", chatID).Msg("telegram send failed")
	}
}

func (r *Router) sendError(chatID int64, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	r.send(chatID, fmt.Sprintf("Game over: %v", err))
}
