package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/msmmarket/matka-admin-platform/internal/admin-api/activity"
	"github.com/msmmarket/matka-admin-platform/internal/settlement-worker/consumer"
	"github.com/msmmarket/matka-admin-platform/internal/settlement-worker/engine"
	srepo "github.com/msmmarket/matka-admin-platform/internal/settlement-worker/repo"
	"github.com/msmmarket/matka-admin-platform/internal/shared/cache"
	"github.com/msmmarket/matka-admin-platform/internal/shared/config"
	"github.com/msmmarket/matka-admin-platform/internal/shared/db"
	skafka "github.com/msmmarket/matka-admin-platform/internal/shared/kafka"
	"github.com/msmmarket/matka-admin-platform/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka consumer (consumer group settlement)
	reader := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicResultDeclared, "settlement")
	defer reader.Close()

	// Kafka producers: bet_settled e DLQ
	settledWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettled)
	defer settledWriter.Close()

	dlqWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicResultDeclaredDLQ)
	defer dlqWriter.Close()

	// Métricas Prometheus para monitoramento da liquidação
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "settlement_events_consumed_total", Help: "eventos result_declared consumidos"})
	settled := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_bets_total", Help: "apostas processadas por desfecho"}, []string{"outcome"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, settled, errorsBy)

	proc := &consumer.Processor{
		Log:    log,
		Reader: reader,
		Repo:   srepo.NewPostgres(pg),
		Payouts: engine.PayoutTable{
			Single: cfg.PayoutSingle,
			Jodi:   cfg.PayoutJodi,
			Panna:  cfg.PayoutPanna,
		},
		SettledWriter: settledWriter,
		DLQWriter:     dlqWriter,
		Activity:      activity.NewPublisher(rdb, cfg.RedisActivityChannel),

		OnConsumed: func() { consumed.Inc() },
		OnSettled:  func(outcome string) { settled.WithLabelValues(outcome).Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := pg.PingContext(ctx); err != nil {
				http.Error(w, "pg", http.StatusServiceUnavailable)
				return
			}
			if err := rdb.Ping(ctx).Err(); err != nil {
				http.Error(w, "redis", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := ":" + cfg.MetricsPort
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("settlement-worker started",
		zap.String("consume", cfg.TopicResultDeclared),
		zap.String("publish", cfg.TopicBetSettled),
	)
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("settlement-worker stopped")
}
