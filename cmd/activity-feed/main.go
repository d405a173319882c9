package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/msmmarket/matka-admin-platform/internal/activity-feed/ws"
	"github.com/msmmarket/matka-admin-platform/internal/shared/cache"
	"github.com/msmmarket/matka-admin-platform/internal/shared/config"
	"github.com/msmmarket/matka-admin-platform/internal/shared/logger"
	"github.com/msmmarket/matka-admin-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("activity-feed", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Redis: fonte do Pub/Sub de atividades
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Hub WebSocket alimentado pelo canal Redis
	hub := ws.NewHub(func(r *http.Request) bool { return true }) // console fica atrás do proxy interno
	ws.StartRedisSubscriber(ctx, log, rdb, cfg.RedisActivityChannel, hub)

	r := chi.NewRouter()
	r.Get("/ws", hub.HandleWS)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	// métricas/health em porta separada
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	go func() {
		<-ctx.Done()
		_ = srv.Close()
		_ = metricsSrv.Close()
	}()

	log.Info("activity-feed listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("ws srv", zap.Error(err))
	}
}
