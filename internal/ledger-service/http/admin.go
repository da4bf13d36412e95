package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/clubgames/olympiad/internal/ledger-service/dto"
	"github.com/clubgames/olympiad/internal/ledger-service/repo"
	"github.com/clubgames/olympiad/pkg/contracts/events"
)

// listWagers retorna o ledger completo para o console admin
func (s *Server) listWagers(w http.ResponseWriter, r *http.Request) {
	rows, err := s.repo.ListWagers(r.Context())
	if err != nil {
		s.internalError(w, "list wagers", err)
		return
	}
	out := make([]dto.WagerRow, 0, len(rows))
	for _, wl := range rows {
		out = append(out, dto.WagerRow{
			ID: wl.ID, AccountID: wl.AccountID, Username: wl.Username,
			EventID: wl.EventID, EventTitle: wl.EventTitle,
			PredictedOutcome: wl.PredictedOutcome, Amount: wl.Amount, MoneyLine: wl.MoneyLine,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"bets": out})
}

// deleteWager remove uma linha do ledger; não há estorno de saldo
func (s *Server) deleteWager(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "Missing bet ID")
		return
	}
	if err := s.repo.DeleteWager(r.Context(), id); err != nil {
		if err == repo.ErrNotFound {
			writeMessage(w, http.StatusNotFound, "bet not found")
			return
		}
		s.internalError(w, "delete wager", err)
		return
	}
	writeMessage(w, http.StatusOK, "Bet deleted successfully")
}

// adjustBalance aplica um delta incondicional ao saldo de uma conta.
// É o canal lateral de correção: não passa pelas invariantes de aposta
// e pode deixar o saldo negativo. O evento de auditoria leva o ator.
func (s *Server) adjustBalance(w http.ResponseWriter, r *http.Request) {
	var req dto.AdjustBalanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.AccountID <= 0 {
		writeMessage(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	newBalance, err := s.repo.AdjustBalance(r.Context(), req.AccountID, req.Delta)
	if err != nil {
		if err == repo.ErrNotFound {
			writeMessage(w, http.StatusNotFound, "account not found")
			return
		}
		s.internalError(w, "adjust balance", err)
		return
	}

	if s.OnAdjustment != nil {
		s.OnAdjustment()
	}
	if err := s.publ.PublishBalanceAdjusted(r.Context(), events.BalanceAdjusted{
		ActorID: accountID(r), AccountID: req.AccountID, Delta: req.Delta,
		NewBalance: newBalance, Reason: req.Reason,
	}); err != nil {
		s.log.Warn("publish balance_adjusted failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, dto.AdjustBalanceResponse{
		AccountID: req.AccountID, NewBalance: newBalance,
	})
}

// createEvent insere um evento no calendário
func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var req dto.EventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.Title == "" || req.Date == "" || req.Time == "" {
		writeMessage(w, http.StatusBadRequest, "Missing required event fields")
		return
	}
	id, err := s.repo.CreateEvent(r.Context(), repo.Event{
		Title: req.Title, Description: req.Description,
		Date: req.Date, Time: req.Time, Participants: req.Participants,
	})
	if err != nil {
		s.internalError(w, "create event", err)
		return
	}
	s.invalidateWindow(r)
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "message": "Event added successfully"})
}

// updateEvent sobrescreve o evento, inclusive as quatro moneylines
func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || eventID <= 0 {
		writeMessage(w, http.StatusBadRequest, "Missing event ID")
		return
	}
	var req dto.EventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.Title == "" {
		writeMessage(w, http.StatusBadRequest, "Missing event title")
		return
	}
	err = s.repo.UpdateEvent(r.Context(), repo.Event{
		ID: eventID, Title: req.Title, Description: req.Description,
		Date: req.Date, Time: req.Time, Participants: req.Participants,
		MoneyLine1: req.MoneyLine1, MoneyLine2: req.MoneyLine2,
		MoneyLine3: req.MoneyLine3, MoneyLine4: req.MoneyLine4,
	})
	if err != nil {
		if err == repo.ErrNotFound {
			writeMessage(w, http.StatusNotFound, "event not found")
			return
		}
		s.internalError(w, "update event", err)
		return
	}
	s.invalidateWindow(r)
	writeMessage(w, http.StatusOK, "Event updated successfully")
}

// deleteEvent remove o evento; apostas históricas não são tocadas
func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || eventID <= 0 {
		writeMessage(w, http.StatusBadRequest, "Missing event ID")
		return
	}
	if err := s.repo.DeleteEvent(r.Context(), eventID); err != nil {
		if err == repo.ErrNotFound {
			writeMessage(w, http.StatusNotFound, "event not found")
			return
		}
		s.internalError(w, "delete event", err)
		return
	}
	s.invalidateWindow(r)
	writeMessage(w, http.StatusOK, "Event deleted successfully")
}

// createSpecialBet insere uma aposta especial autorada pelo admin
func (s *Server) createSpecialBet(w http.ResponseWriter, r *http.Request) {
	var req dto.SpecialBetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.Description == "" || req.Odds == 0 {
		writeMessage(w, http.StatusBadRequest, "Missing description or odds")
		return
	}
	id, err := s.repo.CreateSpecialBet(r.Context(), req.Description, req.Odds, accountID(r))
	if err != nil {
		s.internalError(w, "create special bet", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "message": "Special bet created successfully"})
}

// deleteSpecialBet remove a aposta especial do catálogo; apostas já
// colocadas mantêm o snapshot da descrição
func (s *Server) deleteSpecialBet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "Special bet ID is required")
		return
	}
	if err := s.repo.DeleteSpecialBet(r.Context(), id); err != nil {
		if err == repo.ErrNotFound {
			writeMessage(w, http.StatusNotFound, "special bet not found")
			return
		}
		s.internalError(w, "delete special bet", err)
		return
	}
	writeMessage(w, http.StatusOK, "Special bet deleted successfully")
}

// editTotals aplica ajustes em lote de pontos e medalhas
func (s *Server) editTotals(w http.ResponseWriter, r *http.Request) {
	var req dto.TotalsEditRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.Updates == nil {
		writeMessage(w, http.StatusBadRequest, "Invalid updates payload")
		return
	}
	deltas := make([]repo.TotalsDelta, 0, len(req.Updates))
	for _, u := range req.Updates {
		deltas = append(deltas, repo.TotalsDelta{
			AccountID: u.AccountID, Points: u.Points, GoldMedals: u.GoldMedals,
		})
	}
	if err := s.repo.ApplyTotalsDeltas(r.Context(), deltas); err != nil {
		s.internalError(w, "edit totals", err)
		return
	}
	writeMessage(w, http.StatusOK, "User totals updated successfully")
}

// invalidateWindow derruba o cache da janela apostável após mutação de catálogo
func (s *Server) invalidateWindow(r *http.Request) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateWindows(r.Context()); err != nil {
		s.log.Warn("invalidate betting window cache failed", zap.Error(err))
	}
}
