package topics

const (
	// Ledger
	WagerPlaced     = "wager_placed"
	BalanceAdjusted = "balance_adjusted"

	// DLQs
	WagerPlacedDLQ     = "wager_placed_dlq"
	BalanceAdjustedDLQ = "balance_adjusted_dlq"
)
