package engine

import "math"

// Tipos de aposta aceitos pela plataforma.
const (
	BetSingleOpen  = "single_open"  // 1 dígito contra o ank da abertura
	BetSingleClose = "single_close" // 1 dígito contra o ank do fechamento
	BetJodi        = "jodi"         // 2 dígitos: ank abertura ++ ank fechamento
	BetPannaOpen   = "panna_open"   // 3 dígitos exatos da abertura
	BetPannaClose  = "panna_close"  // 3 dígitos exatos do fechamento
)

// Outcome é o desfecho da avaliação de uma aposta.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	// OutcomeSkip: o tipo exige um número que ainda não foi declarado
	// (ex: jodi numa declaração só de abertura). A aposta segue pendente.
	OutcomeSkip Outcome = "skip"
)

// PayoutTable são os multiplicadores por tipo de aposta. Vêm de configuração
// externa (SETTLEMENT_PAYOUT_*), nunca são decididos aqui.
type PayoutTable struct {
	Single float64
	Jodi   float64
	Panna  float64
}

// Bet é a projeção mínima de uma aposta pendente usada na avaliação.
type Bet struct {
	ID          string
	UserID      string
	Type        string
	Number      string
	AmountPaise int64
}

// Ank reduz um panna de 3 dígitos ao seu dígito único (soma dos dígitos mod 10).
// Retorna "" se o panna for vazio ou malformado.
func Ank(panna string) string {
	if len(panna) != 3 {
		return ""
	}
	sum := 0
	for _, c := range panna {
		if c < '0' || c > '9' {
			return ""
		}
		sum += int(c - '0')
	}
	return string(rune('0' + sum%10))
}

// Evaluate decide o desfecho de uma aposta contra os números declarados.
// Função pura: sem I/O, sem relógio. openRes/closeRes vazios significam
// "ainda não declarado". Tipo desconhecido vira skip para revisão manual,
// nunca derrota silenciosa.
func Evaluate(b Bet, openRes, closeRes string, t PayoutTable) (Outcome, int64) {
	switch b.Type {
	case BetSingleOpen:
		if openRes == "" {
			return OutcomeSkip, 0
		}
		return outcome(b.Number == Ank(openRes), b.AmountPaise, t.Single)

	case BetSingleClose:
		if closeRes == "" {
			return OutcomeSkip, 0
		}
		return outcome(b.Number == Ank(closeRes), b.AmountPaise, t.Single)

	case BetJodi:
		if openRes == "" || closeRes == "" {
			return OutcomeSkip, 0
		}
		return outcome(b.Number == Ank(openRes)+Ank(closeRes), b.AmountPaise, t.Jodi)

	case BetPannaOpen:
		if openRes == "" {
			return OutcomeSkip, 0
		}
		return outcome(b.Number == openRes, b.AmountPaise, t.Panna)

	case BetPannaClose:
		if closeRes == "" {
			return OutcomeSkip, 0
		}
		return outcome(b.Number == closeRes, b.AmountPaise, t.Panna)
	}

	return OutcomeSkip, 0
}

func outcome(won bool, amountPaise int64, multiplier float64) (Outcome, int64) {
	if !won {
		return OutcomeLoss, 0
	}
	return OutcomeWin, int64(math.Round(float64(amountPaise) * multiplier))
}
