package repo

import (
	"context"
	"database/sql"
	"errors"
)

// Postgres implementa os fluxos de aprovação (depósitos) e de pagamento
// (saques) sobre o banco. Toda mudança de status e o efeito de saldo
// correspondente acontecem na mesma transação de banco.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict indica transição a partir de um estado não permitido
	// (ex: segunda aprovação da mesma transação)
	ErrConflict = errors.New("conflict")
)

// ListPendingTransactions retorna a fila de transações pendentes de um tipo
// (deposit/withdraw) já com nome e celular do usuário. Saques em "processing"
// continuam na fila até decisão final.
func (p *Postgres) ListPendingTransactions(ctx context.Context, txType string) ([]PendingTransaction, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT t.id, t.user_id, pr.name, pr.mobile_number, t.amount_paise, t.status, COALESCE(t.utr_number,''), t.created_at
		FROM transactions t
		JOIN profiles pr ON pr.id = t.user_id
		WHERE t.transaction_type = $1 AND t.status IN ('pending','processing')
		ORDER BY t.created_at DESC`, txType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PendingTransaction
	for rows.Next() {
		var t PendingTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.UserName, &t.UserMobile, &t.AmountPaise, &t.Status, &t.UTRNumber, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ApproveDeposit move um depósito pendente para completed e credita o valor
// no saldo do usuário. Status, saldo e lançamento no razão são atômicos;
// aprovação dupla retorna ErrConflict sem novo crédito.
func (p *Postgres) ApproveDeposit(ctx context.Context, txID string) (newBalance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var userID, status string
	var amount int64
	err = tx.QueryRowContext(ctx, `
		SELECT user_id, amount_paise, status FROM transactions
		WHERE id=$1 AND transaction_type='deposit'
		FOR UPDATE`, txID).Scan(&userID, &amount, &status)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	} else if err != nil {
		return 0, err
	}

	if status != StatusPending {
		return 0, ErrConflict
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE transactions SET status='completed', updated_at=NOW() WHERE id=$1`, txID); err != nil {
		return 0, err
	}

	// incremento atômico, nunca read-modify-write no aplicativo
	if err = tx.QueryRowContext(ctx, `
		UPDATE profiles SET balance_paise = balance_paise + $1, updated_at=NOW()
		WHERE id=$2
		RETURNING balance_paise`, amount, userID).Scan(&newBalance); err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO balance_ledger(user_id, entry_type, amount_paise, reference)
		VALUES($1,$2,$3,$4)`, userID, LedgerDepositApproved, amount, "deposit:"+txID); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// RejectDeposit move um depósito pendente para rejected. Sem efeito de saldo.
func (p *Postgres) RejectDeposit(ctx context.Context, txID string) error {
	return p.transitionOnly(ctx, txID, TypeDeposit, []string{StatusPending}, StatusRejected)
}

// MarkPayoutProcessing sinaliza que um saque pendente está em processamento
// bancário. Sem efeito de saldo.
func (p *Postgres) MarkPayoutProcessing(ctx context.Context, txID string) error {
	return p.transitionOnly(ctx, txID, TypeWithdraw, []string{StatusPending}, StatusProcessing)
}

// CompletePayout conclui um saque (pending ou processing). O valor já foi
// retido quando o usuário abriu o pedido, então não há efeito de saldo aqui.
func (p *Postgres) CompletePayout(ctx context.Context, txID string) error {
	return p.transitionOnly(ctx, txID, TypeWithdraw, []string{StatusPending, StatusProcessing}, StatusCompleted)
}

// RejectPayout rejeita um saque e devolve o valor retido ao saldo do usuário.
// Estorno exatamente-uma-vez garantido pela guarda de status na mesma transação.
func (p *Postgres) RejectPayout(ctx context.Context, txID string) (newBalance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var userID, status string
	var amount int64
	err = tx.QueryRowContext(ctx, `
		SELECT user_id, amount_paise, status FROM transactions
		WHERE id=$1 AND transaction_type='withdraw'
		FOR UPDATE`, txID).Scan(&userID, &amount, &status)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	} else if err != nil {
		return 0, err
	}

	if status != StatusPending && status != StatusProcessing {
		return 0, ErrConflict
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE transactions SET status='rejected', updated_at=NOW() WHERE id=$1`, txID); err != nil {
		return 0, err
	}

	if err = tx.QueryRowContext(ctx, `
		UPDATE profiles SET balance_paise = balance_paise + $1, updated_at=NOW()
		WHERE id=$2
		RETURNING balance_paise`, amount, userID).Scan(&newBalance); err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO balance_ledger(user_id, entry_type, amount_paise, reference)
		VALUES($1,$2,$3,$4)`, userID, LedgerWithdrawRefund, amount, "withdraw:"+txID); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// transitionOnly aplica uma transição de status sem efeito de saldo.
// Lock pessimista na linha + guarda de status: linha ausente vira ErrNotFound,
// estado fora do conjunto permitido vira ErrConflict.
func (p *Postgres) transitionOnly(ctx context.Context, txID, txType string, from []string, to string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx, `
		SELECT status FROM transactions
		WHERE id=$1 AND transaction_type=$2
		FOR UPDATE`, txID, txType).Scan(&status)
	if err == sql.ErrNoRows {
		return ErrNotFound
	} else if err != nil {
		return err
	}

	allowed := false
	for _, f := range from {
		if status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrConflict
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE transactions SET status=$1, updated_at=NOW() WHERE id=$2`, to, txID); err != nil {
		return err
	}

	return tx.Commit()
}
