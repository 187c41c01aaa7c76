package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/rs/zerolog"

	"wiki-bot/api/internal/config"
	"wiki-bot/api/internal/game"
	"wiki-bot/api/internal/llm"
	"wiki-bot/api/internal/llm/gemini"
	"wiki-bot/api/internal/llm/nvidia"
	"wiki-bot/api/internal/store"
	"wiki-bot/api/internal/wiki"
)

func main() {
	var (
		start      = flag.String("start", "", "start topic (empty picks a random page)")
		target     = flag.String("target", "", "target topic (empty picks a random page)")
		engineName = flag.String("engine", "nvidia", "llm engine: nvidia | gemini")
		model      = flag.String("model", "", "override the engine's default model")
		maxTurns   = flag.Int("max-turns", 0, "override the configured turn limit")
		quiet      = flag.Bool("quiet", false, "suppress the per-turn progress block")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}
	if *maxTurns > 0 {
		cfg.MaxTurns = *maxTurns
	}

	eng := buildEngine(logger, cfg, *engineName)
	if *model != "" {
		eng.SetModel(*model)
	}

	wikiClient := wiki.New(cfg.WikiLang, cfg.WikiUserAgent)
	ctx := context.Background()

	session, err := game.NewSession(ctx, wikiClient, *start, *target)
	if err != nil {
		logger.Fatal().Err(err).Msg("session setup")
	}
	fmt.Printf("Starting topic: '%s'\n", session.Start)
	fmt.Printf("Target topic: '%s'\n", session.Target)

	var reporters []game.Reporter
	if !*quiet {
		reporters = append(reporters, game.ConsoleReporter{W: os.Stdout})
	}
	if cfg.DatabaseURL != "" {
		repo := openRepo(ctx, logger, cfg.DatabaseURL)
		gameID := fmt.Sprintf("cli-%d", time.Now().Unix())
		reporters = append(reporters, store.TurnSink{Repo: repo, GameID: gameID})
	}

	driver := &game.Driver{
		Engine:    game.NewTurnEngine(wikiClient, eng),
		MaxTurns:  cfg.MaxTurns,
		Reporters: reporters,
		Logger:    logger,
	}

	log, err := driver.Run(ctx, session)
	if err != nil {
		logger.Fatal().Err(err).Int("turns_played", len(log)).Msg("game aborted")
	}
	fmt.Printf("Reached '%s' in %d turn(s).\n", session.Target, len(log))
}

func buildEngine(logger zerolog.Logger, cfg *config.Config, name string) llm.Engine {
	switch name {
	case "nvidia":
		if err := cfg.ValidateNvidiaKey(); err != nil {
			logger.Fatal().Err(err).Msg("nvidia engine")
		}
		return nvidia.New(cfg.NvidiaAPIKey, cfg.NvidiaModel, cfg.Temperature)
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			logger.Fatal().Msg("GEMINI_API_KEY is not set")
		}
		return gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Temperature)
	default:
		logger.Fatal().Str("engine", name).Msg("unknown engine, use nvidia or gemini")
		return nil
	}
}

func openRepo(ctx context.Context, logger zerolog.Logger, dsn string) *store.GameRepo {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("sql.Open")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Fatal().Err(err).Msg("db.Ping")
	}
	repo := store.NewGameRepo(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("db schema")
	}
	return repo
}
