package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/clubgames/olympiad/internal/ledger-service/repo"
	"github.com/clubgames/olympiad/pkg/contracts/events"
)

// stubRepo implementa Repo com comportamento configurável por teste
type stubRepo struct {
	roles map[int64]string

	placeWagerFn    func(accountID, eventID int64, outcome string, amount int64) (string, int64, error)
	placeSpecialFn  func(accountID, specialBetID int64, amount int64) (string, int64, error)
	adjustBalanceFn func(accountID, delta int64) (int64, error)
	deletedWagers   []string
}

func (s *stubRepo) PlaceWager(_ context.Context, accountID, eventID int64, outcome string, amount int64) (string, int64, error) {
	if s.placeWagerFn == nil {
		panic("unexpected PlaceWager call")
	}
	return s.placeWagerFn(accountID, eventID, outcome, amount)
}

func (s *stubRepo) PlaceSpecialWager(_ context.Context, accountID, specialBetID int64, amount int64) (string, int64, error) {
	if s.placeSpecialFn == nil {
		panic("unexpected PlaceSpecialWager call")
	}
	return s.placeSpecialFn(accountID, specialBetID, amount)
}

func (s *stubRepo) AdjustBalance(_ context.Context, accountID, delta int64) (int64, error) {
	if s.adjustBalanceFn == nil {
		panic("unexpected AdjustBalance call")
	}
	return s.adjustBalanceFn(accountID, delta)
}

func (s *stubRepo) GetBalance(context.Context, int64) (int64, error) { return 50, nil }

func (s *stubRepo) ListWagers(context.Context) ([]repo.WagerListing, error) { return nil, nil }

func (s *stubRepo) DeleteWager(_ context.Context, wagerID string) error {
	s.deletedWagers = append(s.deletedWagers, wagerID)
	return nil
}

func (s *stubRepo) CreateAccount(_ context.Context, username, displayName, role string) (repo.Account, error) {
	return repo.Account{ID: 1, Username: username, DisplayName: displayName, Role: role, BettingAmount: 50}, nil
}

func (s *stubRepo) ListAccounts(context.Context) ([]repo.Account, error) { return nil, nil }

func (s *stubRepo) GetProfile(context.Context, int64) (repo.Profile, error) {
	return repo.Profile{}, nil
}

func (s *stubRepo) UpdateProfile(context.Context, int64, string, string) error { return nil }

func (s *stubRepo) GetRole(_ context.Context, accountID int64) (string, error) {
	if role, ok := s.roles[accountID]; ok {
		return role, nil
	}
	return "", repo.ErrNotFound
}

func (s *stubRepo) Leaderboard(context.Context) ([]repo.LeaderboardRow, error) { return nil, nil }

func (s *stubRepo) ApplyTotalsDeltas(context.Context, []repo.TotalsDelta) error { return nil }

func (s *stubRepo) CreateEvent(context.Context, repo.Event) (int64, error) { return 1, nil }
func (s *stubRepo) UpdateEvent(context.Context, repo.Event) error          { return nil }
func (s *stubRepo) DeleteEvent(context.Context, int64) error               { return nil }

func (s *stubRepo) ListSchedule(context.Context) ([]repo.EventView, error) { return nil, nil }
func (s *stubRepo) ListEventsToday(context.Context, string) ([]repo.EventView, error) {
	return nil, nil
}
func (s *stubRepo) ListBettingWindow(context.Context, string, string) ([]repo.EventView, error) {
	return nil, nil
}

func (s *stubRepo) CreateSpecialBet(context.Context, string, int64, int64) (int64, error) {
	return 1, nil
}
func (s *stubRepo) ListSpecialBets(context.Context) ([]repo.SpecialBet, error) { return nil, nil }
func (s *stubRepo) DeleteSpecialBet(context.Context, int64) error              { return nil }

// stubPublisher captura os eventos de auditoria publicados
type stubPublisher struct {
	wagers  []events.WagerPlaced
	adjusts []events.BalanceAdjusted
}

func (p *stubPublisher) PublishWagerPlaced(_ context.Context, e events.WagerPlaced) error {
	p.wagers = append(p.wagers, e)
	return nil
}

func (p *stubPublisher) PublishBalanceAdjusted(_ context.Context, e events.BalanceAdjusted) error {
	p.adjusts = append(p.adjusts, e)
	return nil
}

func newTestServer(r *stubRepo) (*Server, *stubPublisher) {
	publ := &stubPublisher{}
	// cache nil: handlers caem direto no repositório
	return NewServer(zap.NewNop(), r, nil, publ, "Skye"), publ
}

func doJSON(t *testing.T, h http.Handler, method, path string, accountID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if accountID != "" {
		req.Header.Set("X-Account-ID", accountID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPlaceWager_Success(t *testing.T) {
	sr := &stubRepo{
		roles: map[int64]string{3: repo.RoleUser},
		placeWagerFn: func(accountID, eventID int64, outcome string, amount int64) (string, int64, error) {
			if accountID != 3 || eventID != 7 || outcome != "Alice" || amount != 30 {
				t.Errorf("unexpected args: %d %d %q %d", accountID, eventID, outcome, amount)
			}
			return "w-1", 20, nil
		},
	}
	srv, publ := newTestServer(sr)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/wagers", "3", map[string]any{
		"eventId": 7, "predicted_winner": "Alice", "wager_amount": 30,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		WagerID    string `json:"wagerId"`
		NewBalance int64  `json:"new_balance"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.WagerID != "w-1" || resp.NewBalance != 20 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(publ.wagers) != 1 || publ.wagers[0].AccountID != 3 || publ.wagers[0].Amount != 30 {
		t.Errorf("expected one wager_placed audit event, got %+v", publ.wagers)
	}
}

func TestPlaceWager_ValidationRejectedBeforeStore(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"zero amount", map[string]any{"eventId": 7, "predicted_winner": "Alice", "wager_amount": 0}},
		{"negative amount", map[string]any{"eventId": 7, "predicted_winner": "Alice", "wager_amount": -5}},
		{"missing outcome", map[string]any{"eventId": 7, "wager_amount": 10}},
		{"missing event", map[string]any{"predicted_winner": "Alice", "wager_amount": 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := &stubRepo{} // placeWagerFn nil: qualquer chamada ao repo explode
			srv, publ := newTestServer(sr)

			rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/wagers", "3", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if len(publ.wagers) != 0 {
				t.Error("no audit event expected on validation failure")
			}
		})
	}
}

func TestPlaceWager_InsufficientFunds(t *testing.T) {
	sr := &stubRepo{
		placeWagerFn: func(_, _ int64, _ string, _ int64) (string, int64, error) {
			return "", 0, repo.ErrInsufficientFunds
		},
	}
	srv, publ := newTestServer(sr)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/wagers", "3", map[string]any{
		"eventId": 7, "predicted_winner": "Alice", "wager_amount": 30,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if len(publ.wagers) != 0 {
		t.Error("no audit event expected on rejection")
	}
}

func TestPlaceWager_UnknownEvent(t *testing.T) {
	sr := &stubRepo{
		placeWagerFn: func(_, _ int64, _ string, _ int64) (string, int64, error) {
			return "", 0, repo.ErrNotFound
		},
	}
	srv, _ := newTestServer(sr)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/wagers", "3", map[string]any{
		"eventId": 99, "predicted_winner": "Alice", "wager_amount": 10,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPlaceSpecialWager_Success(t *testing.T) {
	sr := &stubRepo{
		placeSpecialFn: func(accountID, specialBetID int64, amount int64) (string, int64, error) {
			if specialBetID != 4 || amount != 10 {
				t.Errorf("unexpected args: %d %d", specialBetID, amount)
			}
			return "w-2", 40, nil
		},
	}
	srv, publ := newTestServer(sr)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/wagers/special", "3", map[string]any{
		"specialBetId": 4, "wager_amount": 10,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(publ.wagers) != 1 {
		t.Fatalf("expected one audit event, got %d", len(publ.wagers))
	}
	ev := publ.wagers[0]
	if ev.EventID != repo.SpecialTarget || ev.SpecialBetID == nil || *ev.SpecialBetID != 4 {
		t.Errorf("expected special sentinel target, got %+v", ev)
	}
}

func TestMissingIdentityRejected(t *testing.T) {
	srv, _ := newTestServer(&stubRepo{})

	rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/wagers", "", map[string]any{
		"eventId": 7, "predicted_winner": "Alice", "wager_amount": 10,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	sr := &stubRepo{roles: map[int64]string{3: repo.RoleUser, 9: repo.RoleAdmin}}
	sr.adjustBalanceFn = func(accountID, delta int64) (int64, error) { return 50 + delta, nil }
	srv, _ := newTestServer(sr)

	// usuário comum barrado
	rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/admin/adjustments", "3", map[string]any{
		"userId": 3, "delta": 10,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}

	// admin passa
	rec = doJSON(t, srv.Router(), http.MethodPost, "/v1/admin/adjustments", "9", map[string]any{
		"userId": 3, "delta": 10,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdjustBalance_PublishesActorAndDelta(t *testing.T) {
	sr := &stubRepo{roles: map[int64]string{9: repo.RoleAdmin}}
	sr.adjustBalanceFn = func(accountID, delta int64) (int64, error) {
		if accountID != 3 || delta != -15 {
			t.Errorf("unexpected args: %d %d", accountID, delta)
		}
		return 5, nil
	}
	srv, publ := newTestServer(sr)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/admin/adjustments", "9", map[string]any{
		"userId": 3, "delta": -15, "reason": "payout correction",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(publ.adjusts) != 1 {
		t.Fatalf("expected one balance_adjusted audit event, got %d", len(publ.adjusts))
	}
	ev := publ.adjusts[0]
	if ev.ActorID != 9 || ev.AccountID != 3 || ev.Delta != -15 || ev.NewBalance != 5 {
		t.Errorf("unexpected audit event: %+v", ev)
	}
}

func TestDeleteWager_AdminOnlyNoReversal(t *testing.T) {
	sr := &stubRepo{roles: map[int64]string{9: repo.RoleAdmin}}
	srv, publ := newTestServer(sr)

	rec := doJSON(t, srv.Router(), http.MethodDelete, "/v1/admin/wagers/w-1", "9", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(sr.deletedWagers) != 1 || sr.deletedWagers[0] != "w-1" {
		t.Errorf("expected wager w-1 deleted, got %v", sr.deletedWagers)
	}
	// remoção não mexe em saldo: nenhum evento de ajuste é publicado
	if len(publ.adjusts) != 0 {
		t.Error("no adjustment event expected on wager delete")
	}
}

func TestCreateAccount_AdminCodePromotes(t *testing.T) {
	srv, _ := newTestServer(&stubRepo{})

	rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/accounts", "", map[string]any{
		"username": "skye", "displayName": "Skye", "adminCode": "Skye",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Role          string `json:"role"`
		BettingAmount int64  `json:"bettingAmount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Role != repo.RoleAdmin {
		t.Errorf("expected admin role, got %q", resp.Role)
	}
	if resp.BettingAmount != 50 {
		t.Errorf("expected starting balance 50, got %d", resp.BettingAmount)
	}
}
