package repo

import "time"

// Status possíveis de uma transação financeira.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
)

// Tipos de transação.
const (
	TypeDeposit  = "deposit"
	TypeWithdraw = "withdraw"
)

// Tipos de lançamento no razão de saldo.
const (
	LedgerDepositApproved = "DEPOSIT_APPROVED"
	LedgerWithdrawRefund  = "WITHDRAW_REFUND"
	LedgerBetPayout       = "BET_PAYOUT"
)

// Transaction é o modelo persistido no Postgres.
type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Type        string    `json:"transaction_type"`
	AmountPaise int64     `json:"amount_paise"`
	Status      string    `json:"status"`
	UTRNumber   string    `json:"utr_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PendingTransaction é a linha das filas de verificação, já com dados do usuário.
type PendingTransaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	UserMobile  string    `json:"user_mobile"`
	AmountPaise int64     `json:"amount_paise"`
	Status      string    `json:"status"`
	UTRNumber   string    `json:"utr_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Result é um resultado de mercado (par abertura/fechamento).
type Result struct {
	ID          string    `json:"id"`
	MarketName  string    `json:"market_name"`
	ResultDate  string    `json:"result_date"` // YYYY-MM-DD
	OpenResult  string    `json:"open_result,omitempty"`
	CloseResult string    `json:"close_result,omitempty"`
	Status      string    `json:"status"` // pending | declared
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Profile é o cadastro de um usuário da plataforma.
type Profile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MobileNumber string    `json:"mobile_number"`
	BalancePaise int64     `json:"balance_paise"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LedgerEntry é um lançamento assinado no razão de saldo (append-only).
type LedgerEntry struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	EntryType   string    `json:"entry_type"`
	AmountPaise int64     `json:"amount_paise"` // assinado: crédito > 0, débito < 0
	Reference   string    `json:"reference"`
	CreatedAt   time.Time `json:"created_at"`
}

// BetSummary agrega as apostas de um usuário para a tela de detalhes.
type BetSummary struct {
	TotalBets        int   `json:"total_bets"`
	BetsWon          int   `json:"bets_won"`
	BetsLost         int   `json:"bets_lost"`
	BetsPending      int   `json:"bets_pending"`
	TotalStakedPaise int64 `json:"total_staked_paise"`
	TotalWonPaise    int64 `json:"total_won_paise"`
}

// UserDetails junta perfil, resumo de apostas, transações recentes e cauda do razão.
type UserDetails struct {
	Profile      Profile       `json:"profile"`
	Bets         BetSummary    `json:"bets"`
	Transactions []Transaction `json:"transactions"`
	Ledger       []LedgerEntry `json:"ledger"`
}

// DashboardStats são os agregados exibidos no painel inicial.
type DashboardStats struct {
	TotalUsers           int   `json:"total_users"`
	TodayBets            int   `json:"today_bets"`
	PendingDeposits      int   `json:"pending_deposits"`
	PendingPayouts       int   `json:"pending_payouts"`
	ResultsDeclaredToday int   `json:"results_declared_today"`
	DepositVolumePaise   int64 `json:"deposit_volume_paise"`
}
