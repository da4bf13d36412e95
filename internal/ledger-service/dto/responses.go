package dto

type AccountResponse struct {
	AccountID     int64  `json:"accountId"`
	Username      string `json:"username"`
	DisplayName   string `json:"displayName,omitempty"`
	Flag          string `json:"flag,omitempty"`
	Role          string `json:"role,omitempty"`
	TotalPoints   int64  `json:"totalPoints"`
	GoldMedals    int64  `json:"goldMedals"`
	BettingAmount int64  `json:"bettingAmount"`
}

type ProfileResponse struct {
	DisplayName   string `json:"displayName"`
	Flag          string `json:"flag"`
	BettingAmount int64  `json:"bettingAmount"`
	GoldMedals    int64  `json:"goldMedals"`
	TotalPoints   int64  `json:"totalPoints"`
}

type BalanceResponse struct {
	AccountID     int64 `json:"accountId"`
	BettingAmount int64 `json:"bettingAmount"`
}

type PlaceWagerResponse struct {
	WagerID    string `json:"wagerId"`
	NewBalance int64  `json:"new_balance"`
	Message    string `json:"message,omitempty"`
}

type AdjustBalanceResponse struct {
	AccountID  int64 `json:"accountId"`
	NewBalance int64 `json:"new_balance"`
}

type EventResponse struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	MoneyLine1   *int64   `json:"moneyLine1"`
	MoneyLine2   *int64   `json:"moneyLine2"`
	MoneyLine3   *int64   `json:"moneyLine3"`
	MoneyLine4   *int64   `json:"moneyLine4"`
	Participants []string `json:"participants"`
}

type SpecialBetResponse struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Odds        int64  `json:"odds"`
	CreatedBy   int64  `json:"created_by"`
}

type WagerRow struct {
	ID               string `json:"id"`
	AccountID        int64  `json:"user_id"`
	Username         string `json:"username"`
	EventID          int64  `json:"event_id"`
	EventTitle       string `json:"eventTitle"`
	PredictedOutcome string `json:"predicted_winner"`
	Amount           int64  `json:"wager_amount"`
	MoneyLine        *int64 `json:"moneyline"`
}

type LeaderboardEntry struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Flag        string `json:"flag"`
	TotalPoints int64  `json:"totalPoints"`
	GoldMedals  int64  `json:"goldMedals"`
}
