package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"petchef/internal/api"
	"petchef/internal/core/cache"
	"petchef/internal/infrastructure/config"
	"petchef/internal/infrastructure/events"
	"petchef/internal/infrastructure/store"
	"petchef/internal/pkg/common"
)

func main() {
	// 載入設定（含選用的 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(common.LogOptions{
		Level:   cfg.Log.Level,
		Mode:    cfg.Log.Mode,
		File:    cfg.Log.File,
		Service: cfg.App.Name,
	}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("Config loaded",
		zap.String("env", cfg.App.Env),
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("dsn", cfg.Store.DSN),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Bool("events_enabled", cfg.Events.Enabled),
	)

	// 初始化儲存層
	st, err := store.New(cfg.Store)
	if err != nil {
		common.LogFatal("Failed to open store", zap.Error(err))
	}
	defer st.Close()

	if cfg.Store.Seed {
		seed, err := store.LoadSeed(cfg.Store.SeedFile)
		if err != nil {
			common.LogFatal("Failed to load seed", zap.Error(err))
		}
		if err := store.SeedIfEmpty(context.Background(), st, seed, time.Now()); err != nil {
			common.LogFatal("Failed to seed store", zap.Error(err))
		}
	}

	// 初始化快取，停用時為 nil
	cacheStore, err := cache.NewStore(cfg.Cache)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}
	if cacheStore != nil {
		defer cacheStore.Close()
	}

	// 初始化事件發佈
	publisher, err := events.NewPublisher(cfg.Events)
	if err != nil {
		common.LogFatal("Failed to initialize event publisher", zap.Error(err))
	}
	defer publisher.Close()

	router := api.SetupRouter(cfg, api.Dependencies{
		Store:     st,
		Cache:     cacheStore,
		Publisher: publisher,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("Starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
