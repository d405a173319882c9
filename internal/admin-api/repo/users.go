package repo

import (
	"context"
	"database/sql"
)

// ListUsers retorna os perfis, opcionalmente filtrados por nome ou celular.
func (p *Postgres) ListUsers(ctx context.Context, search string) ([]Profile, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, mobile_number, balance_paise, created_at, updated_at
		FROM profiles
		WHERE $1 = '' OR name ILIKE '%'||$1||'%' OR mobile_number LIKE '%'||$1||'%'
		ORDER BY created_at DESC`, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var u Profile
		if err := rows.Scan(&u.ID, &u.Name, &u.MobileNumber, &u.BalancePaise, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// GetUserDetails junta perfil, resumo de apostas, transações recentes e os
// últimos lançamentos do razão (a soma do razão precisa bater com o saldo).
func (p *Postgres) GetUserDetails(ctx context.Context, userID string) (*UserDetails, error) {
	var d UserDetails

	err := p.db.QueryRowContext(ctx, `
		SELECT id, name, mobile_number, balance_paise, created_at, updated_at
		FROM profiles WHERE id=$1`, userID).
		Scan(&d.Profile.ID, &d.Profile.Name, &d.Profile.MobileNumber, &d.Profile.BalancePaise, &d.Profile.CreatedAt, &d.Profile.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	err = p.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status='win'),
		       COUNT(*) FILTER (WHERE status='loss'),
		       COUNT(*) FILTER (WHERE status='pending'),
		       COALESCE(SUM(amount_paise),0),
		       COALESCE(SUM(CASE WHEN status='win' THEN amount_paise ELSE 0 END),0)
		FROM bets WHERE user_id=$1`, userID).
		Scan(&d.Bets.TotalBets, &d.Bets.BetsWon, &d.Bets.BetsLost, &d.Bets.BetsPending, &d.Bets.TotalStakedPaise, &d.Bets.TotalWonPaise)
	if err != nil {
		return nil, err
	}

	txRows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, transaction_type, amount_paise, status, COALESCE(utr_number,''), created_at, updated_at
		FROM transactions WHERE user_id=$1
		ORDER BY created_at DESC LIMIT 20`, userID)
	if err != nil {
		return nil, err
	}
	defer txRows.Close()
	for txRows.Next() {
		var t Transaction
		if err := txRows.Scan(&t.ID, &t.UserID, &t.Type, &t.AmountPaise, &t.Status, &t.UTRNumber, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		d.Transactions = append(d.Transactions, t)
	}
	if err := txRows.Err(); err != nil {
		return nil, err
	}

	ledRows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, entry_type, amount_paise, reference, created_at
		FROM balance_ledger WHERE user_id=$1
		ORDER BY id DESC LIMIT 50`, userID)
	if err != nil {
		return nil, err
	}
	defer ledRows.Close()
	for ledRows.Next() {
		var e LedgerEntry
		if err := ledRows.Scan(&e.ID, &e.UserID, &e.EntryType, &e.AmountPaise, &e.Reference, &e.CreatedAt); err != nil {
			return nil, err
		}
		d.Ledger = append(d.Ledger, e)
	}
	if err := ledRows.Err(); err != nil {
		return nil, err
	}

	return &d, nil
}

// DashboardStats calcula os agregados do painel. O chamador decide cachear.
func (p *Postgres) DashboardStats(ctx context.Context) (DashboardStats, error) {
	var s DashboardStats
	err := p.db.QueryRowContext(ctx, `
		SELECT
		  (SELECT COUNT(*) FROM profiles),
		  (SELECT COUNT(*) FROM bets WHERE created_at::date = CURRENT_DATE),
		  (SELECT COUNT(*) FROM transactions WHERE transaction_type='deposit' AND status='pending'),
		  (SELECT COUNT(*) FROM transactions WHERE transaction_type='withdraw' AND status IN ('pending','processing')),
		  (SELECT COUNT(*) FROM results WHERE status='declared' AND updated_at::date = CURRENT_DATE),
		  (SELECT COALESCE(SUM(amount_paise),0) FROM transactions WHERE transaction_type='deposit' AND status='completed')`).
		Scan(&s.TotalUsers, &s.TodayBets, &s.PendingDeposits, &s.PendingPayouts, &s.ResultsDeclaredToday, &s.DepositVolumePaise)
	return s, err
}
