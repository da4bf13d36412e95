package events

// Evento publicado no tópico "balance_adjusted" pelo caminho de correção
// manual do admin. Carrega ator, delta e timestamp para trilha de auditoria.
type BalanceAdjusted struct {
	ActorID    int64  `json:"actor_id"`
	AccountID  int64  `json:"account_id"`
	Delta      int64  `json:"delta"`
	NewBalance int64  `json:"new_balance"`
	Reason     string `json:"reason,omitempty"`
	TsUnixMs   int64  `json:"ts_unix_ms"`
}
