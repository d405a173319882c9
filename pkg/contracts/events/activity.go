package events

import "time"

// Tipos de atividade administrativa exibidos no dashboard e no feed ao vivo.
const (
	ActivityPayment    = "payment"
	ActivityPayout     = "payout"
	ActivityResult     = "result"
	ActivitySettlement = "settlement"
)

// Activity é o payload publicado no canal Redis Pub/Sub e guardado na lista
// de atividades recentes.
type Activity struct {
	Kind    string    `json:"kind"` // payment | payout | result | settlement
	Message string    `json:"message"`
	Ref     string    `json:"ref,omitempty"` // id da transação/resultado relacionado
	Ts      time.Time `json:"ts"`
}
