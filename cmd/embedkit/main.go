package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"

	"github.com/lojasmm/embedkit/internal/ai"
	"github.com/lojasmm/embedkit/internal/bot"
	"github.com/lojasmm/embedkit/internal/builder"
	"github.com/lojasmm/embedkit/internal/config"
	"github.com/lojasmm/embedkit/internal/discord"
	"github.com/lojasmm/embedkit/internal/session"
	"github.com/lojasmm/embedkit/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	sessions, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer sessions.Close()

	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("ai: %v", err)
	}

	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		log.Fatalf("discord: %v", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	locks := session.NewManager()
	collector := discord.NewCollector()

	var gen builder.Generator
	if generator != nil {
		gen = generator
	}
	dispatcher := builder.NewDispatcher(sessions, locks, discord.NewPlatform(dg, collector), gen, builder.Options{
		SessionTTL:    cfg.SessionTTL,
		PromptTimeout: cfg.PromptTimeout,
	})
	handler := bot.NewHandler(dispatcher, dg, cfg.AdminRoleID)

	dg.AddHandler(handler.HandleInteraction)
	dg.AddHandler(collector.HandleMessageCreate)
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("embedkit: connected as %s", r.User.Username)
		if err := bot.RegisterCommands(s, r.User.ID, cfg.GuildID); err != nil {
			log.Printf("embedkit: %v", err)
		}
	})

	if err := dg.Open(); err != nil {
		log.Fatalf("discord: opening gateway: %v", err)
	}
	defer dg.Close()

	// Periodic cleanup of idle locks, expired sessions and rate limiters
	c := cron.New()
	if _, err := c.AddFunc("@every 30m", func() {
		maintenance(ctx, locks, sessions, generator)
	}); err != nil {
		log.Fatalf("cron: %v", err)
	}
	c.Start()
	defer c.Stop()

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("embedkit: listening on :%s (store=%s, ai=%s)", cfg.Port, cfg.StoreBackend, cfg.AIProvider)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("embedkit: shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("embedkit: stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		return store.NewRedisStoreFromURL(ctx, cfg.RedisURL)
	case "postgres":
		return store.NewPostgresStore(ctx, cfg.DatabaseURL)
	case "bolt":
		return store.NewBoltStore(filepath.Join(cfg.DataDir, "embedkit.db"))
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// newGenerator returns nil when AI generation is disabled.
func newGenerator(ctx context.Context, cfg *config.Config) (*ai.Generator, error) {
	var backend ai.Backend
	switch cfg.AIProvider {
	case "gemini":
		b, err := ai.NewGeminiBackend(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		backend = b
	case "openai":
		b, err := ai.NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		if err != nil {
			return nil, err
		}
		backend = b
	default:
		return nil, nil
	}

	emojis, err := ai.LoadEmojis(cfg.EmojiFile)
	if err != nil {
		return nil, err
	}
	log.Printf("embedkit: %d custom emojis available to the generator", len(emojis))
	return ai.NewGenerator(backend, emojis, cfg.AIRatePerMinute), nil
}

func maintenance(ctx context.Context, locks *session.Manager, sessions store.Store, gen *ai.Generator) {
	if n := locks.Cleanup(time.Hour); n > 0 {
		log.Printf("embedkit: dropped %d idle locks", n)
	}
	if p, ok := sessions.(store.Purger); ok {
		n, err := p.Purge(ctx, time.Now())
		if err != nil {
			log.Printf("embedkit: purging sessions: %v", err)
		} else if n > 0 {
			log.Printf("embedkit: purged %d expired sessions", n)
		}
	}
	if gen != nil {
		gen.Cleanup()
	}
}
