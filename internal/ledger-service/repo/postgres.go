package repo

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Postgres implementa as operações do ledger de apostas em banco
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
	ErrInvalidOutcome    = errors.New("invalid outcome")
	ErrAlreadyExists     = errors.New("already exists")
)

// PlaceWager valida e registra uma aposta contra um evento do calendário.
// A checagem de saldo e o débito acontecem num único UPDATE condicional
// dentro da transação: ou a linha do ledger e o débito entram juntos,
// ou nada é aplicado.
func (p *Postgres) PlaceWager(ctx context.Context, accountID, eventID int64, predictedOutcome string, amount int64) (wagerID string, newBalance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback()

	// Evento precisa existir (o sistema original aceitava qualquer id)
	var csv string
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(participants,'') FROM events WHERE id=$1`, eventID).Scan(&csv)
	if err == sql.ErrNoRows {
		return "", 0, ErrNotFound
	} else if err != nil {
		return "", 0, err
	}

	// Resultado previsto precisa ser um dos participantes do evento
	ok, err := outcomeInEvent(ctx, tx, csv, predictedOutcome)
	if err != nil {
		return "", 0, err
	}
	if !ok {
		return "", 0, ErrInvalidOutcome
	}

	if newBalance, err = p.debit(ctx, tx, accountID, amount); err != nil {
		return "", 0, err
	}

	wagerID = uuid.NewString()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO wagers(id, account_id, event_id, predicted_outcome, amount) VALUES($1,$2,$3,$4,$5)`,
		wagerID, accountID, eventID, predictedOutcome, amount); err != nil {
		return "", 0, err
	}

	if err = tx.Commit(); err != nil {
		return "", 0, err
	}
	return wagerID, newBalance, nil
}

// PlaceSpecialWager registra uma aposta contra uma aposta especial.
// A linha do ledger guarda a descrição como snapshot (event_id = 0) e
// mantém special_bet_id enquanto o catálogo existir.
func (p *Postgres) PlaceSpecialWager(ctx context.Context, accountID, specialBetID int64, amount int64) (wagerID string, newBalance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback()

	var description string
	err = tx.QueryRowContext(ctx, `SELECT description FROM special_bets WHERE id=$1`, specialBetID).Scan(&description)
	if err == sql.ErrNoRows {
		return "", 0, ErrNotFound
	} else if err != nil {
		return "", 0, err
	}

	if newBalance, err = p.debit(ctx, tx, accountID, amount); err != nil {
		return "", 0, err
	}

	wagerID = uuid.NewString()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO wagers(id, account_id, event_id, special_bet_id, predicted_outcome, amount) VALUES($1,$2,$3,$4,$5,$6)`,
		wagerID, accountID, SpecialTarget, specialBetID, description, amount); err != nil {
		return "", 0, err
	}

	if err = tx.Commit(); err != nil {
		return "", 0, err
	}
	return wagerID, newBalance, nil
}

// debit aplica o débito condicionado ao saldo: zero linhas afetadas
// significa saldo insuficiente (ou conta inexistente).
func (p *Postgres) debit(ctx context.Context, tx *sql.Tx, accountID, amount int64) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET betting_amount = betting_amount - $1 WHERE id=$2 AND betting_amount >= $1`,
		amount, accountID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		var one int
		err = tx.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE id=$1`, accountID).Scan(&one)
		if err == sql.ErrNoRows {
			return 0, ErrNotFound
		} else if err != nil {
			return 0, err
		}
		return 0, ErrInsufficientFunds
	}

	var balance int64
	if err = tx.QueryRowContext(ctx, `SELECT betting_amount FROM accounts WHERE id=$1`, accountID).Scan(&balance); err != nil {
		return 0, err
	}
	return balance, nil
}

// outcomeInEvent confere se o texto previsto corresponde ao nome de
// exibição de algum participante do evento.
func outcomeInEvent(ctx context.Context, tx *sql.Tx, participantsCSV, predicted string) (bool, error) {
	ids := parseParticipantIDs(participantsCSV)
	if len(ids) == 0 {
		return false, nil
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT COALESCE(NULLIF(display_name,''), username) FROM accounts WHERE id = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		if name == predicted {
			return true, nil
		}
	}
	return false, rows.Err()
}

// parseParticipantIDs converte o CSV de ids preservando a ordem dos slots
func parseParticipantIDs(csv string) []int64 {
	parts := strings.Split(csv, ",")
	out := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue // id malformado herdado do cadastro; ignora o slot
		}
		out = append(out, id)
	}
	return out
}

// AdjustBalance aplica um delta incondicional ao saldo da conta.
// Sem piso: o saldo pode ficar negativo, por decisão do caminho de
// correção manual. Não há pareamento com linhas do ledger.
func (p *Postgres) AdjustBalance(ctx context.Context, accountID, delta int64) (newBalance int64, err error) {
	err = p.db.QueryRowContext(ctx,
		`UPDATE accounts SET betting_amount = betting_amount + $1 WHERE id=$2 RETURNING betting_amount`,
		delta, accountID).Scan(&newBalance)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	return newBalance, err
}

// GetBalance retorna o saldo corrente de apostas da conta
func (p *Postgres) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	var balance int64
	err := p.db.QueryRowContext(ctx, `SELECT betting_amount FROM accounts WHERE id=$1`, accountID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	return balance, err
}

// ListWagers retorna o ledger completo para o console admin, com
// username, título do evento e a primeira moneyline quando houver.
func (p *Postgres) ListWagers(ctx context.Context) ([]WagerListing, error) {
	const q = `
		SELECT w.id, w.account_id, COALESCE(a.username,''), w.event_id,
		       COALESCE(e.title,''), w.predicted_outcome, w.amount, e.money_line1
		FROM wagers w
		LEFT JOIN accounts a ON a.id = w.account_id
		LEFT JOIN events e ON e.id = w.event_id
		ORDER BY w.created_at DESC
	`
	rows, err := p.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WagerListing
	for rows.Next() {
		var wl WagerListing
		var ml sql.NullInt64
		if err := rows.Scan(&wl.ID, &wl.AccountID, &wl.Username, &wl.EventID,
			&wl.EventTitle, &wl.PredictedOutcome, &wl.Amount, &ml); err != nil {
			return nil, err
		}
		if ml.Valid {
			wl.MoneyLine = &ml.Int64
		}
		out = append(out, wl)
	}
	return out, rows.Err()
}

// DeleteWager remove uma linha do ledger sem estornar o saldo
func (p *Postgres) DeleteWager(ctx context.Context, wagerID string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM wagers WHERE id=$1`, wagerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
