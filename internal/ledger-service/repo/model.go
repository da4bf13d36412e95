package repo

import "time"

// Papéis de conta reconhecidos pelo gate de admin.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// SpecialTarget é o valor sentinela gravado em wagers.event_id quando a
// aposta aponta para uma aposta especial em vez de um evento do calendário.
const SpecialTarget int64 = 0

// Account é o modelo persistido na tabela accounts.
type Account struct {
	ID            int64
	Username      string
	DisplayName   string
	Role          string
	Flag          string
	TotalPoints   int64
	GoldMedals    int64
	BettingAmount int64
	CreatedAt     time.Time
}

// Profile é a projeção de conta exibida na tela de perfil.
type Profile struct {
	DisplayName   string
	Flag          string
	BettingAmount int64
	GoldMedals    int64
	TotalPoints   int64
}

// Event é o modelo persistido na tabela events.
// Participants guarda os ids de conta em CSV, na ordem dos slots;
// as quatro moneylines são definidas manualmente pelo admin.
type Event struct {
	ID           int64
	Title        string
	Description  string
	Date         string // YYYY-MM-DD
	Time         string // HH:MM
	Participants string
	MoneyLine1   *int64
	MoneyLine2   *int64
	MoneyLine3   *int64
	MoneyLine4   *int64
}

// EventView é um evento com os nomes dos participantes já resolvidos,
// pronto para a tela de apostas e para o calendário.
type EventView struct {
	ID           int64
	Title        string
	Description  string
	Date         string
	Time         string
	MoneyLine1   *int64
	MoneyLine2   *int64
	MoneyLine3   *int64
	MoneyLine4   *int64
	Participants []string
}

// SpecialBet é uma aposta de proposição criada por admin, sem vínculo
// com o calendário de eventos.
type SpecialBet struct {
	ID          int64
	Description string
	Odds        int64
	CreatedBy   int64
}

// Wager é uma linha do ledger de apostas. PredictedOutcome guarda o
// texto do resultado previsto (nome do participante ou descrição da
// aposta especial) como snapshot; SpecialBetID mantém a referência
// enquanto a aposta especial existir.
type Wager struct {
	ID               string
	AccountID        int64
	EventID          int64
	SpecialBetID     *int64
	PredictedOutcome string
	Amount           int64
	Result           *string
	CreatedAt        time.Time
}

// WagerListing é a linha do ledger enriquecida para o console admin.
type WagerListing struct {
	ID               string
	AccountID        int64
	Username         string
	EventID          int64
	EventTitle       string
	PredictedOutcome string
	Amount           int64
	MoneyLine        *int64
}

// LeaderboardRow é uma posição do placar geral.
type LeaderboardRow struct {
	ID          int64
	Username    string
	DisplayName string
	Flag        string
	TotalPoints int64
	GoldMedals  int64
}

// TotalsDelta é um ajuste em lote de pontos/medalhas aplicado pelo admin.
type TotalsDelta struct {
	AccountID  int64 `json:"userId"`
	Points     int64 `json:"points"`
	GoldMedals int64 `json:"goldMedals"`
}
