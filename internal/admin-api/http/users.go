package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/msmmarket/matka-admin-platform/internal/admin-api/dto"
	"github.com/msmmarket/matka-admin-platform/internal/admin-api/repo"
)

// listUsers retorna os perfis, com filtro opcional por nome/celular (?search=).
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.repo.ListUsers(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		s.writeRepoError(w, err, "list users")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// getUserDetails retorna perfil, resumo de apostas, transações e razão.
func (s *Server) getUserDetails(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	details, err := s.repo.GetUserDetails(r.Context(), id)
	if err != nil {
		s.writeRepoError(w, err, "get user details")
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// dashboardStats serve os agregados do painel com cache-aside no Redis.
func (s *Server) dashboardStats(w http.ResponseWriter, r *http.Request) {
	var cached repo.DashboardStats
	if ok, _ := s.stats.GetStats(r.Context(), &cached); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	stats, err := s.repo.DashboardStats(r.Context())
	if err != nil {
		s.writeRepoError(w, err, "dashboard stats")
		return
	}

	if err := s.stats.SetStats(r.Context(), stats, 30*time.Second); err != nil {
		s.log.Warn("stats cache set", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, stats)
}

// recentActivity retorna as últimas atividades administrativas (?limit=).
func (s *Server) recentActivity(w http.ResponseWriter, r *http.Request) {
	limit := int64(20)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 || n > 100 {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}

	list, err := s.feed.Recent(r.Context(), limit)
	if err != nil {
		s.writeRepoError(w, err, "recent activity")
		return
	}
	writeJSON(w, http.StatusOK, list)
}
