package events

// Evento publicado no tópico "result_declared" quando o admin declara um resultado.
// OpenResult/CloseResult carregam os números de 3 dígitos (vazio = não declarado).
type ResultDeclared struct {
	ResultID    string `json:"result_id"`
	MarketName  string `json:"market_name"`
	ResultDate  string `json:"result_date"` // YYYY-MM-DD
	OpenResult  string `json:"open_result,omitempty"`
	CloseResult string `json:"close_result,omitempty"`
	DeclaredBy  string `json:"declared_by"`
	TsUnixMs    int64  `json:"ts_unix_ms"`
}
