package dto

// DeclareResultRequest carrega os números do resultado. Cada campo, quando
// presente, precisa casar com ^\d{3}$; pelo menos um é obrigatório.
type DeclareResultRequest struct {
	OpenResult  string `json:"open_result,omitempty"`
	CloseResult string `json:"close_result,omitempty"`
}
