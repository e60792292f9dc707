package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"ordix/internal/achievements"
	"ordix/internal/broadcast"
	"ordix/internal/config"
	"ordix/internal/events"
	"ordix/internal/kvstore"
	"ordix/internal/leaderboard"
	"ordix/internal/profile"
	"ordix/internal/round"
	"ordix/internal/sessions"
	"ordix/internal/wshub"
)

// Run wires every component from cfg and serves until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	store, err := kvstore.Open(ctx, kvstore.Config{
		Driver:        cfg.StorageDriver,
		SQLitePath:    cfg.SQLitePath,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage ready", zap.String("driver", cfg.StorageDriver))

	board, err := leaderboard.Open(ctx, leaderboard.Config{
		Driver:                  cfg.LeaderboardDriver,
		DatabaseURL:             cfg.DatabaseURL,
		RedisAddr:               cfg.RedisAddr,
		RedisPassword:           cfg.RedisPassword,
		RedisDB:                 cfg.RedisDB,
		FirebaseProjectID:       cfg.FirebaseProjectID,
		FirebaseCredentialsPath: cfg.FirebaseCredentialsPath,
	}, logger)
	if err != nil {
		return fmt.Errorf("opening leaderboard: %w", err)
	}
	defer board.Close()
	logger.Info("Leaderboard ready", zap.String("driver", cfg.LeaderboardDriver))

	roundCfg := round.DefaultConfig()
	roundCfg.PoolSize = cfg.PoolSize
	roundCfg.BonusEvery = cfg.BonusEvery
	roundCfg.OrderRule = round.OrderRule(cfg.OrderRule)

	sessionStore := sessions.NewStore(roundCfg, cfg.SessionTTL)
	go sessionStore.Run(ctx)

	tracker := achievements.NewTracker()
	repo := achievements.NewRepository(store, tracker, logger)

	hub := wshub.NewHub()
	bus := events.NewBus(events.DefaultBufferSize)
	b := broadcast.NewBroadcaster(bus, hub, logger)

	srv := New(Deps{
		Sessions:     sessionStore,
		Achievements: achievements.NewService(repo, tracker, logger),
		Profiles:     profile.NewService(store, board, logger),
		Leaderboard:  board,
		Hub:          hub,
		Bus:          bus,
		Logger:       logger,
	})

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", httpSrv.Addr))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		bus.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = httpSrv.Shutdown(shutdownCtx)
	bus.Close()
	<-b.Done()
	return err
}
