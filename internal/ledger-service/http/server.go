package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/clubgames/olympiad/internal/ledger-service/cache"
	"github.com/clubgames/olympiad/internal/ledger-service/dto"
	"github.com/clubgames/olympiad/internal/ledger-service/repo"
	"github.com/clubgames/olympiad/pkg/contracts/events"
)

// Repo define as operações de persistência usadas pelos handlers HTTP
type Repo interface {
	PlaceWager(ctx context.Context, accountID, eventID int64, predictedOutcome string, amount int64) (string, int64, error)
	PlaceSpecialWager(ctx context.Context, accountID, specialBetID int64, amount int64) (string, int64, error)
	AdjustBalance(ctx context.Context, accountID, delta int64) (int64, error)
	GetBalance(ctx context.Context, accountID int64) (int64, error)
	ListWagers(ctx context.Context) ([]repo.WagerListing, error)
	DeleteWager(ctx context.Context, wagerID string) error

	CreateAccount(ctx context.Context, username, displayName, role string) (repo.Account, error)
	ListAccounts(ctx context.Context) ([]repo.Account, error)
	GetProfile(ctx context.Context, accountID int64) (repo.Profile, error)
	UpdateProfile(ctx context.Context, accountID int64, displayName, flag string) error
	GetRole(ctx context.Context, accountID int64) (string, error)
	Leaderboard(ctx context.Context) ([]repo.LeaderboardRow, error)
	ApplyTotalsDeltas(ctx context.Context, deltas []repo.TotalsDelta) error

	CreateEvent(ctx context.Context, e repo.Event) (int64, error)
	UpdateEvent(ctx context.Context, e repo.Event) error
	DeleteEvent(ctx context.Context, eventID int64) error
	ListSchedule(ctx context.Context) ([]repo.EventView, error)
	ListEventsToday(ctx context.Context, date string) ([]repo.EventView, error)
	ListBettingWindow(ctx context.Context, from, to string) ([]repo.EventView, error)

	CreateSpecialBet(ctx context.Context, description string, odds int64, createdBy int64) (int64, error)
	ListSpecialBets(ctx context.Context) ([]repo.SpecialBet, error)
	DeleteSpecialBet(ctx context.Context, id int64) error
}

// Publisher publica os eventos de auditoria do ledger
type Publisher interface {
	PublishWagerPlaced(context.Context, events.WagerPlaced) error
	PublishBalanceAdjusted(context.Context, events.BalanceAdjusted) error
}

// Server expõe a API pública e o console admin do ledger
type Server struct {
	log       *zap.Logger
	repo      Repo
	cache     *cache.Cache
	publ      Publisher
	adminCode string

	// Now é substituível em teste; define a janela apostável
	Now func() time.Time

	// callbacks de métricas
	OnWagerPlaced   func(kind string)   // "event" | "special"
	OnWagerRejected func(reason string) // "validation" | "funds" | "not_found" | "outcome"
	OnAdjustment    func()
}

func NewServer(log *zap.Logger, r Repo, c *cache.Cache, p Publisher, adminCode string) *Server {
	return &Server{log: log, repo: r, cache: c, publ: p, adminCode: adminCode, Now: time.Now}
}

// Router retorna o roteador chi com as rotas públicas e de admin
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Post("/accounts", s.createAccount) // cadastro não exige identidade

		r.Group(func(r chi.Router) {
			r.Use(s.withIdentity)
			r.Get("/accounts", s.listAccounts)
			r.Get("/profile", s.getProfile)
			r.Post("/profile/update", s.updateProfile)
			r.Get("/wallet", s.getWallet)
			r.Get("/leaderboard", s.leaderboard)
			r.Get("/schedule", s.schedule)
			r.Get("/events/today", s.eventsToday)
			r.Get("/betting/events", s.bettingEvents)
			r.Get("/specialbets", s.listSpecialBets)
			r.Post("/wagers", s.placeWager)
			r.Post("/wagers/special", s.placeSpecialWager)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.withIdentity, s.requireAdmin)
			r.Get("/wagers", s.listWagers)
			r.Delete("/wagers/{id}", s.deleteWager)
			r.Post("/adjustments", s.adjustBalance)
			r.Post("/events", s.createEvent)
			r.Put("/events/{id}", s.updateEvent)
			r.Delete("/events/{id}", s.deleteEvent)
			r.Post("/specialbets", s.createSpecialBet)
			r.Delete("/specialbets/{id}", s.deleteSpecialBet)
			r.Post("/totals", s.editTotals)
		})
	})
	return r
}

type ctxKey int

const ctxAccountID ctxKey = iota

// withIdentity resolve a identidade do chamador pelo header X-Account-ID.
// Sessões são responsabilidade da borda excluída; aqui só importa o id.
func (s *Server) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.Header.Get("X-Account-ID"), 10, 64)
		if err != nil || id <= 0 {
			writeMessage(w, http.StatusUnauthorized, "missing or invalid account identity")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxAccountID, id)))
	})
}

// requireAdmin confere o papel da conta no banco antes das rotas de admin
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, err := s.repo.GetRole(r.Context(), accountID(r))
		if err != nil {
			if err == repo.ErrNotFound {
				writeMessage(w, http.StatusUnauthorized, "unknown account")
				return
			}
			s.internalError(w, "get role", err)
			return
		}
		if role != repo.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "Forbidden: Admins Only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func accountID(r *http.Request) int64 {
	id, _ := r.Context().Value(ctxAccountID).(int64)
	return id
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// internalError loga o detalhe e devolve mensagem genérica, sem vazar causa
func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.log.Error(op, zap.Error(err))
	writeMessage(w, http.StatusInternalServerError, "Internal server error")
}

func eventView(v repo.EventView) dto.EventResponse {
	return dto.EventResponse{
		ID: v.ID, Title: v.Title, Description: v.Description,
		Date: v.Date, Time: v.Time,
		MoneyLine1: v.MoneyLine1, MoneyLine2: v.MoneyLine2,
		MoneyLine3: v.MoneyLine3, MoneyLine4: v.MoneyLine4,
		Participants: v.Participants,
	}
}

func eventViews(vs []repo.EventView) []dto.EventResponse {
	out := make([]dto.EventResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, eventView(v))
	}
	return out
}
