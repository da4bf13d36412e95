package http

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/clubgames/olympiad/internal/ledger-service/dto"
	"github.com/clubgames/olympiad/internal/ledger-service/repo"
	"github.com/clubgames/olympiad/pkg/contracts/events"
)

// createAccount cadastra uma conta; o código de admin promove o papel
func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.Username == "" {
		writeMessage(w, http.StatusBadRequest, "Missing username")
		return
	}
	role := repo.RoleUser
	if s.adminCode != "" && req.AdminCode == s.adminCode {
		role = repo.RoleAdmin
	}
	a, err := s.repo.CreateAccount(r.Context(), req.Username, req.DisplayName, role)
	if err != nil {
		if err == repo.ErrAlreadyExists {
			writeMessage(w, http.StatusConflict, "Username already exists")
			return
		}
		s.internalError(w, "create account", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.AccountResponse{
		AccountID: a.ID, Username: a.Username, DisplayName: a.DisplayName,
		Role: a.Role, BettingAmount: a.BettingAmount,
	})
}

// listAccounts retorna a listagem de usuários
func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.repo.ListAccounts(r.Context())
	if err != nil {
		s.internalError(w, "list accounts", err)
		return
	}
	out := make([]dto.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, dto.AccountResponse{
			AccountID: a.ID, Username: a.Username, DisplayName: a.DisplayName,
			Flag: a.Flag, TotalPoints: a.TotalPoints, GoldMedals: a.GoldMedals,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}

// getProfile retorna o perfil da conta autenticada
func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.repo.GetProfile(r.Context(), accountID(r))
	if err != nil {
		if err == repo.ErrNotFound {
			writeMessage(w, http.StatusNotFound, "account not found")
			return
		}
		s.internalError(w, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ProfileResponse{
		DisplayName: p.DisplayName, Flag: p.Flag,
		BettingAmount: p.BettingAmount, GoldMedals: p.GoldMedals, TotalPoints: p.TotalPoints,
	})
}

// updateProfile altera nome de exibição e bandeira da própria conta
func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "bad json")
		return
	}
	if err := s.repo.UpdateProfile(r.Context(), accountID(r), req.DisplayName, req.Flag); err != nil {
		if err == repo.ErrNotFound {
			writeMessage(w, http.StatusNotFound, "account not found")
			return
		}
		s.internalError(w, "update profile", err)
		return
	}
	writeMessage(w, http.StatusOK, "Profile updated successfully")
}

// getWallet retorna o saldo de apostas da conta autenticada
func (s *Server) getWallet(w http.ResponseWriter, r *http.Request) {
	id := accountID(r)
	balance, err := s.repo.GetBalance(r.Context(), id)
	if err != nil {
		if err == repo.ErrNotFound {
			writeMessage(w, http.StatusNotFound, "account not found")
			return
		}
		s.internalError(w, "get balance", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.BalanceResponse{AccountID: id, BettingAmount: balance})
}

// leaderboard retorna o placar geral por pontos totais
func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := s.repo.Leaderboard(r.Context())
	if err != nil {
		s.internalError(w, "leaderboard", err)
		return
	}
	out := make([]dto.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.LeaderboardEntry{
			ID: row.ID, Username: row.Username, DisplayName: row.DisplayName,
			Flag: row.Flag, TotalPoints: row.TotalPoints, GoldMedals: row.GoldMedals,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": out})
}

// schedule retorna o calendário completo com nomes resolvidos
func (s *Server) schedule(w http.ResponseWriter, r *http.Request) {
	views, err := s.repo.ListSchedule(r.Context())
	if err != nil {
		s.internalError(w, "schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": eventViews(views)})
}

// eventsToday retorna os eventos agendados para hoje
func (s *Server) eventsToday(w http.ResponseWriter, r *http.Request) {
	today := s.Now().Format("2006-01-02")
	views, err := s.repo.ListEventsToday(r.Context(), today)
	if err != nil {
		s.internalError(w, "events today", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": eventViews(views)})
}

// bettingEvents retorna a janela apostável (hoje até +7 dias),
// preferencialmente do cache
func (s *Server) bettingEvents(w http.ResponseWriter, r *http.Request) {
	from := s.Now().Format("2006-01-02")
	to := s.Now().AddDate(0, 0, 7).Format("2006-01-02")

	if s.cache != nil {
		var cached []dto.EventResponse
		if ok, _ := s.cache.GetWindow(r.Context(), from, &cached); ok {
			writeJSON(w, http.StatusOK, map[string]any{"events": cached})
			return
		}
	}

	views, err := s.repo.ListBettingWindow(r.Context(), from, to)
	if err != nil {
		s.internalError(w, "betting window", err)
		return
	}
	out := eventViews(views)
	if s.cache != nil {
		_ = s.cache.SetWindow(r.Context(), from, out, 30*time.Second)
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

// listSpecialBets retorna o catálogo de apostas especiais
func (s *Server) listSpecialBets(w http.ResponseWriter, r *http.Request) {
	bets, err := s.repo.ListSpecialBets(r.Context())
	if err != nil {
		s.internalError(w, "list special bets", err)
		return
	}
	out := make([]dto.SpecialBetResponse, 0, len(bets))
	for _, sb := range bets {
		out = append(out, dto.SpecialBetResponse{
			ID: sb.ID, Description: sb.Description, Odds: sb.Odds, CreatedBy: sb.CreatedBy,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"specialBets": out})
}

// placeWager registra uma aposta contra um evento do calendário
func (s *Server) placeWager(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceWagerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.EventID <= 0 || req.PredictedOutcome == "" {
		s.rejected("validation")
		writeMessage(w, http.StatusBadRequest, "Missing required bet information")
		return
	}
	if req.Amount <= 0 {
		s.rejected("validation")
		writeMessage(w, http.StatusBadRequest, "Invalid wager amount")
		return
	}

	id := accountID(r)
	wagerID, newBalance, err := s.repo.PlaceWager(r.Context(), id, req.EventID, req.PredictedOutcome, req.Amount)
	if err != nil {
		s.wagerError(w, err)
		return
	}

	if s.OnWagerPlaced != nil {
		s.OnWagerPlaced("event")
	}
	if err := s.publ.PublishWagerPlaced(r.Context(), events.WagerPlaced{
		WagerID: wagerID, AccountID: id, EventID: req.EventID,
		PredictedOutcome: req.PredictedOutcome, Amount: req.Amount, NewBalance: newBalance,
	}); err != nil {
		s.log.Warn("publish wager_placed failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, dto.PlaceWagerResponse{
		WagerID: wagerID, NewBalance: newBalance, Message: "Bet placed successfully",
	})
}

// placeSpecialWager registra uma aposta contra uma aposta especial
func (s *Server) placeSpecialWager(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceSpecialWagerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.SpecialBetID <= 0 {
		s.rejected("validation")
		writeMessage(w, http.StatusBadRequest, "Missing parameters")
		return
	}
	if req.Amount <= 0 {
		s.rejected("validation")
		writeMessage(w, http.StatusBadRequest, "Invalid wager amount")
		return
	}

	id := accountID(r)
	wagerID, newBalance, err := s.repo.PlaceSpecialWager(r.Context(), id, req.SpecialBetID, req.Amount)
	if err != nil {
		s.wagerError(w, err)
		return
	}

	if s.OnWagerPlaced != nil {
		s.OnWagerPlaced("special")
	}
	sbID := req.SpecialBetID
	if err := s.publ.PublishWagerPlaced(r.Context(), events.WagerPlaced{
		WagerID: wagerID, AccountID: id, EventID: repo.SpecialTarget, SpecialBetID: &sbID,
		Amount: req.Amount, NewBalance: newBalance,
	}); err != nil {
		s.log.Warn("publish wager_placed failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, dto.PlaceWagerResponse{
		WagerID: wagerID, NewBalance: newBalance, Message: "Special bet placed successfully",
	})
}

// wagerError mapeia os erros sentinela do ledger para HTTP
func (s *Server) wagerError(w http.ResponseWriter, err error) {
	switch err {
	case repo.ErrNotFound:
		s.rejected("not_found")
		writeMessage(w, http.StatusNotFound, "target not found")
	case repo.ErrInvalidOutcome:
		s.rejected("outcome")
		writeMessage(w, http.StatusUnprocessableEntity, "predicted outcome is not a participant of the event")
	case repo.ErrInsufficientFunds:
		s.rejected("funds")
		writeMessage(w, http.StatusConflict, "Insufficient betting funds")
	default:
		s.internalError(w, "place wager", err)
	}
}

func (s *Server) rejected(reason string) {
	if s.OnWagerRejected != nil {
		s.OnWagerRejected(reason)
	}
}
