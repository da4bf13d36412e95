package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/clubgames/olympiad/pkg/contracts/events"
)

// Tipos de entrada gravados na trilha de auditoria
const (
	EntryWagerPlaced     = "WAGER_PLACED"
	EntryBalanceAdjusted = "BALANCE_ADJUSTED"
)

// PostgresRepo grava a trilha de auditoria do ledger em banco Postgres.
// A tabela é append-only; ninguém mais escreve nela.
type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// InsertWagerPlaced registra a colocação de uma aposta
func (r *PostgresRepo) InsertWagerPlaced(ctx context.Context, e events.WagerPlaced) error {
	const q = `
		INSERT INTO audit_log
		  (entry_type, actor_id, account_id, wager_id, delta, detail, occurred_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7)
	`
	_, err := r.DB.ExecContext(ctx, q,
		EntryWagerPlaced, e.AccountID, e.AccountID, e.WagerID,
		-e.Amount, e.PredictedOutcome, msToTime(e.TsUnixMs),
	)
	return err
}

// InsertBalanceAdjusted registra uma correção manual de saldo com o ator
func (r *PostgresRepo) InsertBalanceAdjusted(ctx context.Context, e events.BalanceAdjusted) error {
	const q = `
		INSERT INTO audit_log
		  (entry_type, actor_id, account_id, delta, detail, occurred_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6)
	`
	_, err := r.DB.ExecContext(ctx, q,
		EntryBalanceAdjusted, e.ActorID, e.AccountID, e.Delta, e.Reason, msToTime(e.TsUnixMs),
	)
	return err
}

func msToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Now().UTC()
	}
	return time.UnixMilli(ms).UTC()
}
