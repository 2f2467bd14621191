package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dthaibinhF/chemist-FE-sub000/config"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/api/handler"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/api/router"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/service"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/upstream"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/jwt"
	applogger "github.com/dthaibinhF/chemist-FE-sub000/pkg/logger"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/redis"
)

func main() {
	// 1. configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logging
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting timetable gateway",
		zap.Int("port", cfg.Server.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. redis (optional: run degraded without cache and rate limits)
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without cache and rate limits", zap.Error(err))
		rdb = nil
	}

	// 4. token verification
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 5. dependency injection: upstream client → service → handler
	up := upstream.NewHTTPClient(&cfg.Upstream, logger)
	svc := service.NewService(cfg, up, rdb, logger)
	h := handler.NewHandler(svc, cfg)

	// 6. routes
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 7. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // exports can take a while
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
