package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gillepool/awoobot/internal/adapter"
	"github.com/gillepool/awoobot/internal/brain"
	"github.com/gillepool/awoobot/internal/commands"
	"github.com/gillepool/awoobot/internal/config"
	"github.com/gillepool/awoobot/internal/dice"
	"github.com/gillepool/awoobot/internal/events"
	"github.com/gillepool/awoobot/internal/meme"
	"github.com/gillepool/awoobot/internal/random"
	"github.com/gillepool/awoobot/internal/router"
	"github.com/gillepool/awoobot/internal/storage"
	"github.com/gillepool/awoobot/pkg/logger"
	"go.uber.org/zap"
)

type Bot struct {
	Name    string
	Adapter adapter.Adapter
	Brain   *brain.Brain
	Router  *router.Router
	Storage *storage.Storage
	Logger  *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) (*Bot, error) {
	store := storage.NewStorage(log.Named("Storage"))
	if cfg.RedisAddr != "" {
		memory, err := storage.NewRedisMemory(storage.Config{
			Addr:     cfg.RedisAddr,
			Key:      cfg.RedisKey,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Logger:   log.Named("Redis"),
		})
		if err != nil {
			return nil, err
		}
		store.SetMemory(memory)
	}

	src, err := random.NewSeeded()
	if err != nil {
		return nil, err
	}

	renderer, err := meme.NewRenderer(cfg.MemeFontPath, &http.Client{Timeout: 30 * time.Second}, log.Named("Meme"))
	if err != nil {
		return nil, err
	}

	cmds := &commands.Commands{
		Prefix: cfg.Prefix,
		Random: src,
		Limits: dice.Limits{
			MaxCount: cfg.MaxDice,
			MaxSides: cfg.MaxSides,
		},
		Storage:  store,
		Renderer: renderer,
		Logger:   log.Named("Commands"),
	}
	registry, err := cmds.Registry()
	if err != nil {
		return nil, err
	}

	var chat adapter.Adapter
	switch cfg.Adapter {
	case config.AdapterCLI:
		chat = adapter.NewCLIAdapter(cfg.Name, log.Named("CLI"))
	default:
		chat, err = adapter.NewDiscordAdapter(cfg.DiscordToken, log.Named("Discord"))
		if err != nil {
			return nil, err
		}
	}

	b := brain.NewBrain(log.Named("Brain"))
	b.SetHandlerTimeout(cfg.HandlerTimeout)

	r := router.New(cfg.Prefix, registry, chat, log.Named("Router"))
	b.RegisterHandler(r.HandleMessage)
	b.RegisterHandler(func(events.InitEvent) {
		log.Info("AwooBot, reporting for duty! Awooooo~!")
	})

	keys, err := store.Keys()
	if err != nil {
		return nil, err
	}
	log.Info("Storage used", zap.Bool("redis", cfg.RedisAddr != ""), zap.Int("keys", len(keys)))
	return &Bot{
		Name:    cfg.Name,
		Brain:   b,
		Router:  r,
		Adapter: chat,
		Storage: store,
		Logger:  log,
	}, nil
}

// Run processes events until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.Brain.Err(); err != nil {
		return fmt.Errorf("invalid event handlers: %w", err)
	}

	b.Adapter.RegisterAt(b.Brain)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := b.Brain.Shutdown(shutdownCtx); err != nil {
			b.Logger.Warn("Brain did not shut down cleanly", zap.Error(err))
		}
	}()

	b.Logger.Info("Initialize bot", zap.String("name", b.Name), zap.String("prefix", b.Router.Prefix()))
	b.Brain.HandleEvents()

	b.Logger.Info("Close adapter and storage on shutdown", zap.String("name", b.Name))
	if err := b.Adapter.Close(); err != nil {
		b.Logger.Info("Error while closing adapter", zap.Error(err))
	}
	if err := b.Storage.Close(); err != nil {
		b.Logger.Info("Error while closing memory", zap.Error(err))
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "awoobot:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintln(os.Stderr, "awoobot:", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	bot, err := New(cfg, log)
	if err != nil {
		log.Fatal("Failed to create bot", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bot.Run(ctx); err != nil {
		log.Fatal("Bot stopped", zap.Error(err))
	}
	log.Info("AwooBot, signing off. Awooooo~!")
}
