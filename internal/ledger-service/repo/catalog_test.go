package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func TestCreateAccount_StartsWithDefaultBalance(t *testing.T) {
	p, mock, closeDB := newMockRepo(t)
	defer closeDB()

	// o default da coluna devolve 50 no RETURNING
	mock.ExpectQuery(`INSERT INTO accounts\(username, display_name, role\)`).
		WithArgs("chaz", "Chaz", RoleUser).
		WillReturnRows(sqlmock.NewRows([]string{"id", "betting_amount"}).AddRow(3, 50))

	a, err := p.CreateAccount(context.Background(), "chaz", "Chaz", RoleUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.BettingAmount != 50 {
		t.Errorf("expected starting balance 50, got %d", a.BettingAmount)
	}
	if a.ID != 3 {
		t.Errorf("expected id 3, got %d", a.ID)
	}
}

func TestCreateAccount_DuplicateUsername(t *testing.T) {
	p, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery(`INSERT INTO accounts\(username, display_name, role\)`).
		WithArgs("chaz", "Chaz", RoleUser).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := p.CreateAccount(context.Background(), "chaz", "Chaz", RoleUser)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestListBettingWindow_ResolvesParticipantNames(t *testing.T) {
	p, mock, closeDB := newMockRepo(t)
	defer closeDB()

	eventRows := sqlmock.NewRows([]string{
		"id", "title", "description", "date", "time", "participants",
		"money_line1", "money_line2", "money_line3", "money_line4",
	}).AddRow(7, "Ping Pong Final", "", "2026-08-30", "14:00", "2,1", 150, -200, nil, nil)

	mock.ExpectQuery(`FROM events\s+WHERE date BETWEEN \$1 AND \$2`).
		WithArgs("2026-08-30", "2026-09-06").
		WillReturnRows(eventRows)
	mock.ExpectQuery(`SELECT id, COALESCE\(NULLIF\(display_name,''\), username\) FROM accounts WHERE id = ANY\(\$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Alice").AddRow(2, "Bob"))

	views, err := p.ListBettingWindow(context.Background(), "2026-08-30", "2026-09-06")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 event, got %d", len(views))
	}
	v := views[0]
	// a ordem dos slots do CSV se mantém na resolução
	if len(v.Participants) != 2 || v.Participants[0] != "Bob" || v.Participants[1] != "Alice" {
		t.Errorf("unexpected participants: %v", v.Participants)
	}
	if v.MoneyLine1 == nil || *v.MoneyLine1 != 150 {
		t.Errorf("expected moneyLine1 150, got %v", v.MoneyLine1)
	}
	if v.MoneyLine2 == nil || *v.MoneyLine2 != -200 {
		t.Errorf("expected moneyLine2 -200, got %v", v.MoneyLine2)
	}
	if v.MoneyLine3 != nil {
		t.Errorf("expected moneyLine3 unset, got %v", *v.MoneyLine3)
	}
}

func TestDeleteSpecialBet_NotFound(t *testing.T) {
	p, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectExec(`DELETE FROM special_bets WHERE id=\$1`).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := p.DeleteSpecialBet(context.Background(), 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplyTotalsDeltas_SkipsMissingAccountID(t *testing.T) {
	p, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectExec(`UPDATE accounts SET total_points = total_points \+ \$1, gold_medals = gold_medals \+ \$2`).
		WithArgs(int64(10), int64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deltas := []TotalsDelta{
		{AccountID: 0, Points: 99}, // sem conta: ignorado
		{AccountID: 3, Points: 10, GoldMedals: 1},
	}
	if err := p.ApplyTotalsDeltas(context.Background(), deltas); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}
