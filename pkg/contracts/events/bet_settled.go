package events

import "time"

// Evento emitido pelo settlement-worker após liquidar as apostas de um resultado.
type BetSettled struct {
	ResultID    string    `json:"result_id"`
	MarketName  string    `json:"market_name"`
	ResultDate  string    `json:"result_date"`
	BetsWon     int       `json:"bets_won"`
	BetsLost    int       `json:"bets_lost"`
	BetsSkipped int       `json:"bets_skipped"` // tipo exige número ainda não declarado
	PayoutPaise int64     `json:"payout_paise"` // total creditado
	Ts          time.Time `json:"ts"`
}
