package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/msmmarket/matka-admin-platform/internal/admin-api/auth"
	"github.com/msmmarket/matka-admin-platform/internal/admin-api/dto"
	"github.com/msmmarket/matka-admin-platform/internal/admin-api/repo"
	"github.com/msmmarket/matka-admin-platform/pkg/contracts/events"
)

// Repo define as operações de banco usadas pelos handlers.
type Repo interface {
	ListPendingTransactions(ctx context.Context, txType string) ([]repo.PendingTransaction, error)
	ApproveDeposit(ctx context.Context, txID string) (int64, error)
	RejectDeposit(ctx context.Context, txID string) error
	MarkPayoutProcessing(ctx context.Context, txID string) error
	CompletePayout(ctx context.Context, txID string) error
	RejectPayout(ctx context.Context, txID string) (int64, error)
	ListPendingResults(ctx context.Context) ([]repo.Result, error)
	DeclareResult(ctx context.Context, resultID, openRes, closeRes string) (repo.Result, error)
	ListUsers(ctx context.Context, search string) ([]repo.Profile, error)
	GetUserDetails(ctx context.Context, userID string) (*repo.UserDetails, error)
	DashboardStats(ctx context.Context) (repo.DashboardStats, error)
}

// ResultPublisher publica result_declared para o settlement-worker.
type ResultPublisher interface {
	PublishResultDeclared(ctx context.Context, e events.ResultDeclared) error
}

// ActivityFeed registra e lista atividades administrativas.
type ActivityFeed interface {
	Publish(ctx context.Context, kind, message, ref string) error
	Recent(ctx context.Context, n int64) ([]events.Activity, error)
}

// StatsCache é o cache-aside dos agregados do dashboard.
type StatsCache interface {
	GetStats(ctx context.Context, dst any) (bool, error)
	SetStats(ctx context.Context, v any, ttl time.Duration) error
}

// Server expõe a API HTTP do console administrativo.
type Server struct {
	log      *zap.Logger
	repo     Repo
	sessions auth.SessionGetter
	publ     ResultPublisher
	feed     ActivityFeed
	stats    StatsCache
}

func NewServer(log *zap.Logger, r Repo, sessions auth.SessionGetter, p ResultPublisher, feed ActivityFeed, stats StatsCache) *Server {
	return &Server{log: log, repo: r, sessions: sessions, publ: p, feed: feed, stats: stats}
}

// Router retorna o mux com as rotas do console, todas atrás do papel admin.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(auth.RequireAdmin(s.sessions))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/payments/pending", s.listPendingPayments)
		r.Post("/payments/{id}/approve", s.approveDeposit)
		r.Post("/payments/{id}/reject", s.rejectDeposit)

		r.Get("/payouts/pending", s.listPendingPayouts)
		r.Post("/payouts/{id}/processing", s.markPayoutProcessing)
		r.Post("/payouts/{id}/complete", s.completePayout)
		r.Post("/payouts/{id}/reject", s.rejectPayout)

		r.Get("/results/pending", s.listPendingResults)
		r.Post("/results/{id}/declare", s.declareResult)

		r.Get("/users", s.listUsers)
		r.Get("/users/{id}", s.getUserDetails)

		r.Get("/dashboard/stats", s.dashboardStats)
		r.Get("/dashboard/activity", s.recentActivity)
	})

	return r
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeRepoError mapeia os erros sentinela do repo para códigos HTTP.
// Detalhe interno vai pro log; o admin vê só a ação que falhou.
func (s *Server) writeRepoError(w http.ResponseWriter, err error, action string) {
	switch err {
	case repo.ErrNotFound:
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: action + ": not found"})
	case repo.ErrConflict:
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: action + ": already decided"})
	default:
		s.log.Error(action, zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: action + " failed"})
	}
}

// publishActivity registra a atividade sem derrubar o fluxo em caso de falha.
func (s *Server) publishActivity(ctx context.Context, kind, message, ref string) {
	if err := s.feed.Publish(ctx, kind, message, ref); err != nil {
		s.log.Warn("activity publish", zap.Error(err))
	}
}
