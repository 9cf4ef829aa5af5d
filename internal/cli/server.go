package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trivia-arena-service/internal/app"
	"trivia-arena-service/internal/config"
	"trivia-arena-service/internal/domain"
	"trivia-arena-service/internal/infra/memory"
	pgloader "trivia-arena-service/internal/infra/postgres"
	redisinfra "trivia-arena-service/internal/infra/redis"
	transport "trivia-arena-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.CorpusLoader = memory.NewStaticCorpusLoader(sampleCorpus())
	if cfg.Corpus.File != "" {
		loader = memory.NewFileCorpusLoader(cfg.Corpus.File)
	}
	if pool != nil {
		loader = pgloader.NewQuestionLoader(pool)
	}

	corpusTTL := config.TTLDuration(cfg.Corpus.TTL, 10*time.Minute)
	var corpus app.QuestionRepository
	if redisClient != nil {
		corpus = redisinfra.NewQuestionRepository(redisClient, loader, corpusTTL)
	} else {
		corpus = memory.NewQuestionRepository(loader, corpusTTL)
	}

	settings := gameSettings(cfg)
	sessionTTL := config.TTLDuration(cfg.Game.SessionTTL, time.Hour)
	finishedGrace := config.TTLDuration(cfg.Game.FinishedGrace, 5*time.Minute)
	sweepInterval := config.TTLDuration(cfg.Game.SweepInterval, time.Minute)

	var store interface {
		app.SessionStore
		StartJanitor(time.Duration)
		StopJanitor()
	}
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, redisTTL, sessionTTL, finishedGrace)
	} else {
		store = memory.NewSessionStore(sessionTTL, finishedGrace)
	}
	store.StartJanitor(sweepInterval)
	defer store.StopJanitor()

	service := app.NewGameService(store, corpus, settings)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trivia arena on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func gameSettings(cfg config.Config) app.Settings {
	settings := app.DefaultSettings()
	if cfg.Game.Questions > 0 {
		settings.QuestionsPerGame = cfg.Game.Questions
	}
	if cfg.Game.Bots > 0 {
		settings.BotCount = cfg.Game.Bots
	}
	settings.BotAnswerWindow = config.TTLDuration(cfg.Game.BotAnswerWindow, settings.BotAnswerWindow)
	settings.PacingDelay = config.TTLDuration(cfg.Game.PacingDelay, settings.PacingDelay)
	settings.QuestionTime = config.TTLDuration(cfg.Game.QuestionTime, settings.QuestionTime)
	return settings
}

// sampleCorpus provides a minimal question set; point corpus.file or
// postgres.url at real content in production.
func sampleCorpus() []domain.Question {
	return []domain.Question{
		{
			Type:          domain.MultipleChoice,
			Prompt:        "What is 2 + 2?",
			CorrectAnswer: "4",
			WrongAnswers:  []string{"3", "5"},
			Difficulty:    1,
		},
		{
			Type:          domain.TrueFalse,
			Prompt:        "The sky is blue on a clear day.",
			CorrectAnswer: "true",
			WrongAnswers:  []string{"false"},
			Difficulty:    1,
		},
		{
			Type:          domain.FillBlank,
			Prompt:        "The capital of France is ____.",
			CorrectAnswer: "Paris",
			WrongAnswers:  []string{"Lyon", "Marseille"},
			Difficulty:    2,
		},
	}
}
