package repo

import (
	"context"
	"database/sql"

	"github.com/msmmarket/matka-admin-platform/internal/settlement-worker/engine"
)

// Postgres implementa a liquidação de apostas no banco. Cada aposta é
// liquidada numa transação própria: marcador de liquidação, status da aposta
// e crédito do prêmio entram ou saem juntos.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// PendingBets retorna as apostas pendentes de um mercado/data.
func (p *Postgres) PendingBets(ctx context.Context, marketName, resultDate string) ([]engine.Bet, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, bet_type, bet_number, amount_paise
		FROM bets
		WHERE market_name=$1 AND result_date=$2 AND status='pending'
		ORDER BY created_at`, marketName, resultDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Bet
	for rows.Next() {
		var b engine.Bet
		if err := rows.Scan(&b.ID, &b.UserID, &b.Type, &b.Number, &b.AmountPaise); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SettleBet aplica o desfecho de uma aposta de forma idempotente.
// A chave (bet_id, result_id) em bet_settlements é o marcador checado-e-gravado:
// ON CONFLICT DO NOTHING sem linha inserida significa que outra invocação já
// liquidou essa aposta, e nada mais é tocado (applied=false).
func (p *Postgres) SettleBet(ctx context.Context, betID, resultID, userID string, out engine.Outcome, payoutPaise int64) (applied bool, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO bet_settlements(bet_id, result_id, outcome, payout_paise)
		VALUES($1,$2,$3,$4)
		ON CONFLICT (bet_id, result_id) DO NOTHING`, betID, resultID, string(out), payoutPaise)
	if err != nil {
		return false, err
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if inserted == 0 {
		// reentrega/redeclaração: aposta já liquidada, nenhum novo crédito
		return false, nil
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE bets SET status=$1 WHERE id=$2 AND status='pending'`, string(out), betID)
	if err != nil {
		return false, err
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if updated == 0 {
		// aposta saiu de pending por outro caminho; desfaz o marcador junto
		return false, nil
	}

	if out == engine.OutcomeWin {
		if _, err = tx.ExecContext(ctx, `
			UPDATE profiles SET balance_paise = balance_paise + $1, updated_at=NOW()
			WHERE id=$2`, payoutPaise, userID); err != nil {
			return false, err
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO balance_ledger(user_id, entry_type, amount_paise, reference)
			VALUES($1,'BET_PAYOUT',$2,$3)`, userID, payoutPaise, "bet:"+betID+":result:"+resultID); err != nil {
			return false, err
		}
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
