package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/clubgames/olympiad/pkg/contracts/events"
)

func TestInsertWagerPlaced_RecordsDebitAsNegativeDelta(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock DB: %v", err)
	}
	defer db.Close()
	r := NewPostgresRepo(db)

	// aposta de 30 entra na trilha como delta -30; o próprio apostador é o ator
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(EntryWagerPlaced, int64(3), int64(3), "w-1", int64(-30), "Alice", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = r.InsertWagerPlaced(context.Background(), events.WagerPlaced{
		WagerID: "w-1", AccountID: 3, EventID: 7,
		PredictedOutcome: "Alice", Amount: 30, NewBalance: 20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestInsertBalanceAdjusted_KeepsActorDistinctFromAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock DB: %v", err)
	}
	defer db.Close()
	r := NewPostgresRepo(db)

	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(EntryBalanceAdjusted, int64(9), int64(3), int64(-15), "payout correction", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = r.InsertBalanceAdjusted(context.Background(), events.BalanceAdjusted{
		ActorID: 9, AccountID: 3, Delta: -15, NewBalance: 5, Reason: "payout correction",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}
