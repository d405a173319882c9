package http

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/msmmarket/matka-admin-platform/internal/admin-api/auth"
	"github.com/msmmarket/matka-admin-platform/internal/admin-api/dto"
	"github.com/msmmarket/matka-admin-platform/pkg/contracts/events"
)

// números de resultado são sempre 3 dígitos (panna)
var resultPattern = regexp.MustCompile(`^\d{3}$`)

// listPendingResults retorna os mercados aguardando declaração.
func (s *Server) listPendingResults(w http.ResponseWriter, r *http.Request) {
	list, err := s.repo.ListPendingResults(r.Context())
	if err != nil {
		s.writeRepoError(w, err, "list pending results")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// declareResult valida os números, declara (ou emenda) o resultado e dispara
// a liquidação via Kafka. Validação acontece antes de qualquer escrita; número
// malformado não muda estado nenhum. Na emenda o evento sai com os números
// mesclados, e os marcadores por aposta impedem pagamento duplo na reliquidação.
func (s *Server) declareResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.DeclareResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return
	}

	if req.OpenResult == "" && req.CloseResult == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "at least one of open_result/close_result is required"})
		return
	}
	if req.OpenResult != "" && !resultPattern.MatchString(req.OpenResult) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "open result must be a 3-digit number"})
		return
	}
	if req.CloseResult != "" && !resultPattern.MatchString(req.CloseResult) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "close result must be a 3-digit number"})
		return
	}

	res, err := s.repo.DeclareResult(r.Context(), id, req.OpenResult, req.CloseResult)
	if err != nil {
		s.writeRepoError(w, err, "declare result")
		return
	}

	// dispara a liquidação; o worker é idempotente por aposta, então uma
	// eventual reentrega do evento não paga ninguém duas vezes
	ev := events.ResultDeclared{
		ResultID:    res.ID,
		MarketName:  res.MarketName,
		ResultDate:  res.ResultDate,
		OpenResult:  res.OpenResult,
		CloseResult: res.CloseResult,
	}
	if sess, ok := auth.FromContext(r.Context()); ok {
		ev.DeclaredBy = sess.AdminID
	}
	if err := s.publ.PublishResultDeclared(r.Context(), ev); err != nil {
		// resultado já está declarado; sem o evento a liquidação não roda,
		// então isso precisa aparecer alto no log
		s.log.Error("publish result_declared", zap.String("resultId", res.ID), zap.Error(err))
	}

	s.publishActivity(r.Context(), events.ActivityResult, "Result declared for "+res.MarketName, res.ID)
	writeJSON(w, http.StatusOK, dto.DeclareResultResponse{
		ResultID:    res.ID,
		MarketName:  res.MarketName,
		ResultDate:  res.ResultDate,
		OpenResult:  res.OpenResult,
		CloseResult: res.CloseResult,
		Status:      res.Status,
	})
}
