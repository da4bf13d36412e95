package events

// Evento publicado no tópico "wager_placed" após o commit da aposta.
type WagerPlaced struct {
	WagerID          string `json:"wager_id"`
	AccountID        int64  `json:"account_id"`
	EventID          int64  `json:"event_id"` // 0 indica aposta especial
	SpecialBetID     *int64 `json:"special_bet_id,omitempty"`
	PredictedOutcome string `json:"predicted_outcome"`
	Amount           int64  `json:"amount"`
	NewBalance       int64  `json:"new_balance"`
	TsUnixMs         int64  `json:"ts_unix_ms"`
}
