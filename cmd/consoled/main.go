package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"matchday/internal/audio"
	"matchday/internal/config"
	"matchday/internal/engine"
	"matchday/internal/httpapi"
	"matchday/internal/hub"
	"matchday/internal/playback"
	"matchday/internal/session"
)

func main() {
	_ = godotenv.Load() // .env is optional
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng := engine.NewClient(cfg.EngineBaseURL, cfg.EngineTimeout, logger.Named("engine"))

	var player playback.Player = audio.NewClipPlayer(cfg.AudioTimeout, logger.Named("audio"))
	if !cfg.AudioEnabled {
		player = audio.NopPlayer{}
	}

	h := hub.NewHub(ctx, func(ctx context.Context, p session.Params) *session.Session {
		return session.New(ctx, p, session.Deps{
			Engine:     eng,
			Player:     player,
			AudioBase:  cfg.AudioBaseURL,
			EventDelay: cfg.EventDelay,
			Logger:     logger.Named("session"),
		})
	})

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: httpapi.SetupRoutes(h, logger),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		h.Inbox() <- hub.ShutdownHub{}
		return srv.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
