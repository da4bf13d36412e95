package dto

type CreateAccountRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AdminCode   string `json:"adminCode,omitempty"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
	Flag        string `json:"flag"`
}

type PlaceWagerRequest struct {
	EventID          int64  `json:"eventId"`
	PredictedOutcome string `json:"predicted_winner"`
	Amount           int64  `json:"wager_amount"`
}

type PlaceSpecialWagerRequest struct {
	SpecialBetID int64 `json:"specialBetId"`
	Amount       int64 `json:"wager_amount"`
}

type AdjustBalanceRequest struct {
	AccountID int64  `json:"userId"`
	Delta     int64  `json:"delta"`
	Reason    string `json:"reason,omitempty"`
}

type EventRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Date         string `json:"date"` // YYYY-MM-DD
	Time         string `json:"time"` // HH:MM
	Participants string `json:"participants"` // CSV de ids de conta
	MoneyLine1   *int64 `json:"moneyLine1"`
	MoneyLine2   *int64 `json:"moneyLine2"`
	MoneyLine3   *int64 `json:"moneyLine3"`
	MoneyLine4   *int64 `json:"moneyLine4"`
}

type SpecialBetRequest struct {
	Description string `json:"description"`
	Odds        int64  `json:"odds"`
}

type TotalsUpdate struct {
	AccountID  int64 `json:"userId"`
	Points     int64 `json:"points"`
	GoldMedals int64 `json:"goldMedals"`
}

type TotalsEditRequest struct {
	Updates []TotalsUpdate `json:"updates"`
}
