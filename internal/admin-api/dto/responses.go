package dto

// DecisionResponse é a resposta das ações de aprovação/pagamento.
// BalancePaise só é preenchido quando a decisão mexeu no saldo.
type DecisionResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	BalancePaise  *int64 `json:"balance_paise,omitempty"`
}

// DeclareResultResponse confirma a declaração de um resultado.
type DeclareResultResponse struct {
	ResultID    string `json:"result_id"`
	MarketName  string `json:"market_name"`
	ResultDate  string `json:"result_date"`
	OpenResult  string `json:"open_result,omitempty"`
	CloseResult string `json:"close_result,omitempty"`
	Status      string `json:"status"`
}

// ErrorResponse é o envelope de erro da API.
type ErrorResponse struct {
	Error string `json:"error"`
}
