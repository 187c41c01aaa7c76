package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/rs/zerolog"

	"wiki-bot/api/internal/config"
	"wiki-bot/api/internal/llm"
	"wiki-bot/api/internal/llm/gemini"
	"wiki-bot/api/internal/llm/nvidia"
	"wiki-bot/api/internal/store"
	"wiki-bot/api/internal/telegram"
	"wiki-bot/api/internal/wiki"
)

var logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}
	if cfg.TelegramBotToken == "" {
		logger.Fatal().Msg("TELEGRAM_BOT_TOKEN is not set")
	}

	// --- Postgres (optional turn log) ---
	var repo *store.GameRepo
	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("sql.Open")
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(1 * time.Hour)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.PingContext(ctx); err != nil {
			cancel()
			logger.Fatal().Err(err).Msg("db.Ping")
		}
		cancel()

		repo = store.NewGameRepo(db)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			logger.Fatal().Err(err).Msg("db schema")
		}
		logger.Info().Msg("turn log enabled")
	}

	// --- Engines ---
	engines := telegram.Engines{}
	if err := cfg.ValidateNvidiaKey(); err == nil {
		engines.Nvidia = nvidia.New(cfg.NvidiaAPIKey, cfg.NvidiaModel, cfg.Temperature)
	} else {
		logger.Warn().Err(err).Msg("nvidia engine disabled")
	}
	if cfg.GeminiAPIKey != "" {
		engines.Gemini = gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Temperature)
	}

	var def llm.Engine
	switch {
	case engines.Nvidia != nil:
		def = engines.Nvidia
	case engines.Gemini != nil:
		def = engines.Gemini
	default:
		logger.Fatal().Msg("no LLM engine configured: set NVIDIA_API_KEY or GEMINI_API_KEY")
	}

	// --- Telegram bot ---
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	bot.Debug = false

	r := &telegram.Router{
		Bot:        bot,
		EngManager: llm.NewManager(def),
		Wiki:       wiki.New(cfg.WikiLang, cfg.WikiUserAgent),
		Repo:       repo,
		MaxTurns:   cfg.MaxTurns,
		Logger:     logger,
	}

	// --- HTTP mux (DefaultServeMux, so ListenForWebhook hooks in) ---
	http.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if db != nil {
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("db: not ok\n" + err.Error()))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	addr := "0.0.0.0:" + cfg.Port

	if webhookURL := strings.TrimSpace(cfg.WebhookURL); webhookURL != "" {
		startWebhookMode(addr, bot, r, webhookURL, engines)
	} else {
		startPollingMode(addr, bot, r, engines)
	}
}

// ---------------- Modes -----------------

func startWebhookMode(addr string, bot *tgbotapi.BotAPI, r *telegram.Router, baseURL string, engines telegram.Engines) {
	// secret webhook path derived from the token
	path := "/webhook/" + shortHash(bot.Token)
	public := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		logger.Fatal().Err(err).Msg("webhook")
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		logger.Fatal().Err(err).Msg("webhook register")
	}

	updates := bot.ListenForWebhook(path)

	go func() {
		for upd := range updates {
			r.HandleUpdate(upd, engines)
		}
		logger.Info().Msg("webhook updates channel closed")
	}()

	logger.Info().Str("addr", addr).Str("path", path).Msg("webhook listening")
	if err := http.ListenAndServe(addr, nil); err != nil { // DefaultServeMux
		logger.Fatal().Err(err).Msg("http")
	}
}

func startPollingMode(addr string, bot *tgbotapi.BotAPI, r *telegram.Router, engines telegram.Engines) {
	// healthz still served, even though polling does not need HTTP
	go func() {
		logger.Info().Str("addr", addr).Msg("health server listening")
		if err := http.ListenAndServe(addr, nil); err != nil { // DefaultServeMux
			logger.Fatal().Err(err).Msg("http")
		}
	}()

	runPolling(context.Background(), bot, func(upd tgbotapi.Update) {
		r.HandleUpdate(upd, engines)
	})
}

// ---------------- Polling loop -----------------

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") { // HTTP 429 from Telegram
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return 2 * time.Second
		}
	}
	return 1 * time.Second
}

func runPolling(ctx context.Context, bot *tgbotapi.BotAPI, handle func(tgbotapi.Update)) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("polling: context cancelled")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30 // long polling timeout (sec)

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := retryDelayFromError(err)
			if d < baseDelay {
				d = baseDelay
			}
			if d > maxDelay {
				d = maxDelay
			}
			logger.Warn().Err(err).Dur("retry_in", d).Msg("polling error")
			time.Sleep(d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}

		if len(updates) == 0 {
			time.Sleep(200 * time.Millisecond)
		}
	}
}

// ---------------- Helpers -----------------

func shortHash(s string) string {
	// cheap stable hash for the webhook path (not crypto)
	h := uint64(1469598103934665603)
	const prime = 1099511628211
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		out[i] = hexdigits[h&0xF]
		h >>= 4
	}
	return string(out)
}
