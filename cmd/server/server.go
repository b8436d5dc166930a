package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/solo-rpg-api/internal/config"
	"github.com/KirkDiggler/solo-rpg-api/internal/dice"
	"github.com/KirkDiggler/solo-rpg-api/internal/errors"
	v1alpha1 "github.com/KirkDiggler/solo-rpg-api/internal/handlers/api/v1alpha1"
	deckorch "github.com/KirkDiggler/solo-rpg-api/internal/orchestrators/deck"
	"github.com/KirkDiggler/solo-rpg-api/internal/orchestrators/history"
	"github.com/KirkDiggler/solo-rpg-api/internal/pkg/clock"
	"github.com/KirkDiggler/solo-rpg-api/internal/pkg/idgen"
	"github.com/KirkDiggler/solo-rpg-api/internal/pkg/rng"
	redisclient "github.com/KirkDiggler/solo-rpg-api/internal/redis"
	deckrepo "github.com/KirkDiggler/solo-rpg-api/internal/repositories/deck"
	rollhistory "github.com/KirkDiggler/solo-rpg-api/internal/repositories/roll_history"
	"github.com/KirkDiggler/solo-rpg-api/internal/storage"
)

var (
	httpAddress  string
	redisAddress string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long:  `Start the solo RPG API server with dice, deck, and history services.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().StringVar(&httpAddress, "address", "", "HTTP listen address (overrides SOLO_RPG_HTTP_ADDRESS)")
	serverCmd.Flags().StringVar(&redisAddress, "redis", "", "Redis address (overrides SOLO_RPG_REDIS_ADDRESS)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	if httpAddress != "" {
		cfg.HTTPAddress = httpAddress
	}
	if redisAddress != "" {
		cfg.RedisAddress = redisAddress
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	store, err := buildStore(cfg)
	if err != nil {
		return err
	}

	handler, err := buildHandler(cfg, store)
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Use(chimid.RequestID)
	router.Use(chimid.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Mount("/v1alpha1", handler.Routes())

	srv := &http.Server{
		Addr:    cfg.HTTPAddress,
		Handler: router,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "address", cfg.HTTPAddress)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- errors.Wrap(err, "failed to serve")
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown timeout exceeded, forcing close")
			return srv.Close()
		}

		slog.Info("server stopped gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

// buildStore picks the persistence backend. With no Redis configured the
// server still works; state just dies with the process.
func buildStore(cfg *config.Config) (storage.KV, error) {
	if cfg.RedisAddress == "" {
		slog.Warn("no Redis address configured, state will not survive restarts")
		return storage.NewMemory(), nil
	}

	client, err := redisclient.NewClient(cfg.RedisAddress, &redisclient.Options{
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create redis client")
	}

	return storage.NewRedis(&storage.RedisConfig{Client: client})
}

func buildHandler(cfg *config.Config, store storage.KV) (*v1alpha1.Handler, error) {
	deckRepo, err := deckrepo.NewKVRepository(&deckrepo.Config{Store: store})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create deck repository")
	}

	historyRepo, err := rollhistory.NewKVRepository(&rollhistory.Config{Store: store})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create history repository")
	}

	deckService, err := deckorch.NewOrchestrator(&deckorch.Config{
		Repository:     deckRepo,
		Source:         rng.New(),
		ReshuffleDelay: cfg.JokerReshuffleDelay,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create deck service")
	}

	historyService, err := history.NewOrchestrator(&history.Config{
		Repository:  historyRepo,
		IDGenerator: idgen.NewPrefixed("roll"),
		Clock:       clock.New(),
		MaxEntries:  cfg.HistoryMaxEntries,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create history service")
	}

	evaluator, err := dice.NewEvaluator(&dice.Config{
		Roller: dice.NewRoller(rng.New()),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create dice evaluator")
	}

	return v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		Evaluator:      evaluator,
		DeckService:    deckService,
		HistoryService: historyService,
	})
}
