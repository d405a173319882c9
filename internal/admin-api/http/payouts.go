package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/msmmarket/matka-admin-platform/internal/admin-api/dto"
	"github.com/msmmarket/matka-admin-platform/internal/admin-api/repo"
	"github.com/msmmarket/matka-admin-platform/pkg/contracts/events"
)

// listPendingPayouts retorna os pedidos de saque pendentes ou em processamento.
func (s *Server) listPendingPayouts(w http.ResponseWriter, r *http.Request) {
	list, err := s.repo.ListPendingTransactions(r.Context(), repo.TypeWithdraw)
	if err != nil {
		s.writeRepoError(w, err, "list pending payouts")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// markPayoutProcessing sinaliza que a transferência bancária está em andamento.
func (s *Server) markPayoutProcessing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.repo.MarkPayoutProcessing(r.Context(), id); err != nil {
		s.writeRepoError(w, err, "mark payout processing")
		return
	}

	s.publishActivity(r.Context(), events.ActivityPayout, "Payout marked as processing", id)
	writeJSON(w, http.StatusOK, dto.DecisionResponse{TransactionID: id, Status: repo.StatusProcessing})
}

// completePayout conclui o saque. O valor foi retido no pedido, então não há
// efeito de saldo aqui.
func (s *Server) completePayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.repo.CompletePayout(r.Context(), id); err != nil {
		s.writeRepoError(w, err, "complete payout")
		return
	}

	s.publishActivity(r.Context(), events.ActivityPayout, "Payout completed", id)
	writeJSON(w, http.StatusOK, dto.DecisionResponse{TransactionID: id, Status: repo.StatusCompleted})
}

// rejectPayout rejeita o saque e devolve o valor retido ao saldo.
func (s *Server) rejectPayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	balance, err := s.repo.RejectPayout(r.Context(), id)
	if err != nil {
		s.writeRepoError(w, err, "reject payout")
		return
	}

	s.publishActivity(r.Context(), events.ActivityPayout, "Payout rejected and funds returned", id)
	writeJSON(w, http.StatusOK, dto.DecisionResponse{TransactionID: id, Status: repo.StatusRejected, BalancePaise: &balance})
}
