package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// Kind: tipo de atividade, requerido em subscribe/unsubscribe
type ClientMsg struct {
	Type string `json:"type"` // subscribe | unsubscribe | ping
	Kind string `json:"kind"` // payment | payout | result | settlement | "*"
}
