package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/msmmarket/matka-admin-platform/internal/admin-api/activity"
	"github.com/msmmarket/matka-admin-platform/internal/admin-api/auth"
	"github.com/msmmarket/matka-admin-platform/internal/admin-api/dashboard"
	ahttp "github.com/msmmarket/matka-admin-platform/internal/admin-api/http"
	"github.com/msmmarket/matka-admin-platform/internal/admin-api/producer"
	"github.com/msmmarket/matka-admin-platform/internal/admin-api/repo"
	"github.com/msmmarket/matka-admin-platform/internal/shared/cache"
	"github.com/msmmarket/matka-admin-platform/internal/shared/config"
	"github.com/msmmarket/matka-admin-platform/internal/shared/db"
	skafka "github.com/msmmarket/matka-admin-platform/internal/shared/kafka"
	"github.com/msmmarket/matka-admin-platform/internal/shared/logger"
)

func main() {
	cfg := config.Load()

	// Inicializa logger estruturado
	log, err := logger.New("admin-api", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", "admin-api"), zap.String("env", cfg.Env))

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Redis: sessões, cache do dashboard e feed de atividades
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writer (topic result_declared)
	writer := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicResultDeclared)
	defer writer.Close()

	// deps
	repository := repo.NewPostgres(pg)
	sessions := auth.NewStore(rdb, 12*time.Hour)
	publ := producer.NewKafkaPublisher(writer)
	feed := activity.NewPublisher(rdb, cfg.RedisActivityChannel)
	stats := dashboard.New(rdb)

	// HTTP público
	api := ahttp.NewServer(log, repository, sessions, publ, feed, stats)
	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	// metrics/health
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.PingContext(r.Context()); err != nil {
			http.Error(w, "pg", http.StatusServiceUnavailable)
			return
		}
		if err := rdb.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() {
		addr := ":" + cfg.MetricsPort
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, metricsMux)
	}()

	log.Info("admin-api listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
