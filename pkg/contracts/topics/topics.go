package topics

const (
	// Resultados
	ResultDeclared = "result_declared"

	// Liquidação
	BetSettled = "bet_settled"

	// DLQs
	ResultDeclaredDLQ = "result_declared_dlq"
)
