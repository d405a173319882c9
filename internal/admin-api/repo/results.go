package repo

import (
	"context"
	"database/sql"
)

// ListPendingResults retorna os resultados ainda não declarados, mais recentes primeiro.
func (p *Postgres) ListPendingResults(ctx context.Context) ([]Result, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, market_name, to_char(result_date,'YYYY-MM-DD'), COALESCE(open_result,''), COALESCE(close_result,''), status, created_at, updated_at
		FROM results
		WHERE status='pending'
		ORDER BY result_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.MarketName, &r.ResultDate, &r.OpenResult, &r.CloseResult, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeclareResult persiste os números declarados de um resultado.
// Resultado pendente: declaração normal (abertura, fechamento ou ambos).
// Resultado já declarado: emenda — só preenche um número ainda vazio, o caso
// da abertura declarada de manhã e do fechamento à noite; apostas que
// dependiam do número que faltava seguem pendentes até aqui. Trocar um número
// já declarado é conflito (mudaria desfechos já pagos).
func (p *Postgres) DeclareResult(ctx context.Context, resultID, openRes, closeRes string) (Result, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, err
	}
	defer tx.Rollback()

	var r Result
	err = tx.QueryRowContext(ctx, `
		SELECT id, market_name, to_char(result_date,'YYYY-MM-DD'), COALESCE(open_result,''), COALESCE(close_result,''), status FROM results
		WHERE id=$1
		FOR UPDATE`, resultID).Scan(&r.ID, &r.MarketName, &r.ResultDate, &r.OpenResult, &r.CloseResult, &r.Status)
	if err == sql.ErrNoRows {
		return Result{}, ErrNotFound
	} else if err != nil {
		return Result{}, err
	}

	switch r.Status {
	case StatusPending:
		r.OpenResult = openRes
		r.CloseResult = closeRes
	case "declared":
		if openRes != "" {
			if r.OpenResult != "" {
				return Result{}, ErrConflict
			}
			r.OpenResult = openRes
		}
		if closeRes != "" {
			if r.CloseResult != "" {
				return Result{}, ErrConflict
			}
			r.CloseResult = closeRes
		}
	default:
		return Result{}, ErrConflict
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE results
		SET open_result=NULLIF($1,''), close_result=NULLIF($2,''), status='declared', updated_at=NOW()
		WHERE id=$3`, r.OpenResult, r.CloseResult, resultID); err != nil {
		return Result{}, err
	}

	if err = tx.Commit(); err != nil {
		return Result{}, err
	}

	r.Status = "declared"
	return r, nil
}
