package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/msmmarket/matka-admin-platform/internal/admin-api/dto"
	"github.com/msmmarket/matka-admin-platform/internal/admin-api/repo"
	"github.com/msmmarket/matka-admin-platform/pkg/contracts/events"
)

// listPendingPayments retorna a fila de depósitos aguardando verificação.
func (s *Server) listPendingPayments(w http.ResponseWriter, r *http.Request) {
	list, err := s.repo.ListPendingTransactions(r.Context(), repo.TypeDeposit)
	if err != nil {
		s.writeRepoError(w, err, "list pending payments")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// approveDeposit completa o depósito e credita o valor no saldo do usuário.
// Clique duplo de dois admins: o segundo recebe 409 e nenhum crédito extra.
func (s *Server) approveDeposit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	balance, err := s.repo.ApproveDeposit(r.Context(), id)
	if err != nil {
		s.writeRepoError(w, err, "approve payment")
		return
	}

	s.publishActivity(r.Context(), events.ActivityPayment, "Payment approved and balance credited", id)
	writeJSON(w, http.StatusOK, dto.DecisionResponse{TransactionID: id, Status: repo.StatusCompleted, BalancePaise: &balance})
}

// rejectDeposit rejeita o depósito; nada muda no saldo.
func (s *Server) rejectDeposit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.repo.RejectDeposit(r.Context(), id); err != nil {
		s.writeRepoError(w, err, "reject payment")
		return
	}

	s.publishActivity(r.Context(), events.ActivityPayment, "Payment rejected", id)
	writeJSON(w, http.StatusOK, dto.DecisionResponse{TransactionID: id, Status: repo.StatusRejected})
}
