package repo

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/lib/pq"
)

// uniqueViolation é o código do Postgres para violação de índice único
const uniqueViolation = "23505"

// CreateAccount cadastra uma conta nova. O saldo inicial de apostas (50)
// vem do default da coluna.
func (p *Postgres) CreateAccount(ctx context.Context, username, displayName, role string) (Account, error) {
	var a Account
	a.Username = username
	a.DisplayName = displayName
	a.Role = role
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO accounts(username, display_name, role) VALUES($1,$2,$3) RETURNING id, betting_amount`,
		username, displayName, role).Scan(&a.ID, &a.BettingAmount)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return Account{}, ErrAlreadyExists
		}
		return Account{}, err
	}
	return a, nil
}

// ListAccounts retorna as contas para a listagem de usuários
func (p *Postgres) ListAccounts(ctx context.Context) ([]Account, error) {
	const q = `
		SELECT id, username, COALESCE(display_name,''), COALESCE(flag,''), total_points, gold_medals
		FROM accounts
		ORDER BY id
	`
	rows, err := p.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Username, &a.DisplayName, &a.Flag, &a.TotalPoints, &a.GoldMedals); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetProfile retorna a projeção de perfil da conta
func (p *Postgres) GetProfile(ctx context.Context, accountID int64) (Profile, error) {
	var pr Profile
	err := p.db.QueryRowContext(ctx,
		`SELECT COALESCE(display_name,''), COALESCE(flag,''), betting_amount, gold_medals, total_points
		 FROM accounts WHERE id=$1`, accountID).
		Scan(&pr.DisplayName, &pr.Flag, &pr.BettingAmount, &pr.GoldMedals, &pr.TotalPoints)
	if err == sql.ErrNoRows {
		return Profile{}, ErrNotFound
	}
	return pr, err
}

// UpdateProfile altera apenas nome de exibição e bandeira (auto-serviço)
func (p *Postgres) UpdateProfile(ctx context.Context, accountID int64, displayName, flag string) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE accounts SET display_name=$1, flag=$2 WHERE id=$3`,
		displayName, flag, accountID)
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

// GetRole retorna o papel da conta, usado pelo gate de admin
func (p *Postgres) GetRole(ctx context.Context, accountID int64) (string, error) {
	var role string
	err := p.db.QueryRowContext(ctx, `SELECT role FROM accounts WHERE id=$1`, accountID).Scan(&role)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return role, err
}

// Leaderboard retorna as contas ordenadas por pontos totais
func (p *Postgres) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	const q = `
		SELECT id, username, COALESCE(display_name,''), COALESCE(flag,''), total_points, gold_medals
		FROM accounts
		ORDER BY total_points DESC
	`
	rows, err := p.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardRow
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.ID, &r.Username, &r.DisplayName, &r.Flag, &r.TotalPoints, &r.GoldMedals); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ApplyTotalsDeltas aplica os ajustes de pontos/medalhas um a um.
// Cada update é incondicional e independente, como no caminho original;
// entradas sem conta são ignoradas.
func (p *Postgres) ApplyTotalsDeltas(ctx context.Context, deltas []TotalsDelta) error {
	for _, d := range deltas {
		if d.AccountID == 0 {
			continue
		}
		if _, err := p.db.ExecContext(ctx,
			`UPDATE accounts SET total_points = total_points + $1, gold_medals = gold_medals + $2 WHERE id=$3`,
			d.Points, d.GoldMedals, d.AccountID); err != nil {
			return err
		}
	}
	return nil
}

// CreateEvent insere um evento no calendário (moneylines entram depois, na edição)
func (p *Postgres) CreateEvent(ctx context.Context, e Event) (int64, error) {
	var id int64
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO events(title, description, date, time, participants) VALUES($1,$2,$3,$4,$5) RETURNING id`,
		e.Title, e.Description, e.Date, e.Time, e.Participants).Scan(&id)
	return id, err
}

// UpdateEvent sobrescreve todos os campos editáveis, inclusive as quatro moneylines
func (p *Postgres) UpdateEvent(ctx context.Context, e Event) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE events SET title=$1, description=$2, date=$3, time=$4, participants=$5,
		        money_line1=$6, money_line2=$7, money_line3=$8, money_line4=$9
		 WHERE id=$10`,
		e.Title, e.Description, e.Date, e.Time, e.Participants,
		e.MoneyLine1, e.MoneyLine2, e.MoneyLine3, e.MoneyLine4, e.ID)
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

// DeleteEvent remove o evento. Apostas históricas não são tocadas: o
// ledger guarda o texto do resultado como snapshot.
func (p *Postgres) DeleteEvent(ctx context.Context, eventID int64) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM events WHERE id=$1`, eventID)
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

// ListEvents retorna os eventos crus (CSV de participantes), para o console admin
func (p *Postgres) ListEvents(ctx context.Context) ([]Event, error) {
	const q = `
		SELECT id, title, COALESCE(description,''), date, time, COALESCE(participants,''),
		       money_line1, money_line2, money_line3, money_line4
		FROM events
		ORDER BY date, time
	`
	rows, err := p.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListSchedule retorna todos os eventos com nomes de participantes resolvidos
func (p *Postgres) ListSchedule(ctx context.Context) ([]EventView, error) {
	events, err := p.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	return p.resolveViews(ctx, events)
}

// ListEventsToday retorna os eventos agendados para a data informada
func (p *Postgres) ListEventsToday(ctx context.Context, date string) ([]EventView, error) {
	const q = `
		SELECT id, title, COALESCE(description,''), date, time, COALESCE(participants,''),
		       money_line1, money_line2, money_line3, money_line4
		FROM events
		WHERE date = $1
		ORDER BY time
	`
	return p.queryViews(ctx, q, date)
}

// ListBettingWindow retorna os eventos do intervalo apostável
// (hoje até +7 dias no chamador), ordenados por data e hora.
func (p *Postgres) ListBettingWindow(ctx context.Context, from, to string) ([]EventView, error) {
	const q = `
		SELECT id, title, COALESCE(description,''), date, time, COALESCE(participants,''),
		       money_line1, money_line2, money_line3, money_line4
		FROM events
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, time
	`
	return p.queryViews(ctx, q, from, to)
}

func (p *Postgres) queryViews(ctx context.Context, q string, args ...any) ([]EventView, error) {
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return p.resolveViews(ctx, events)
}

func scanEvent(rows *sql.Rows) (Event, error) {
	var e Event
	var ml [4]sql.NullInt64
	err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Participants,
		&ml[0], &ml[1], &ml[2], &ml[3])
	if err != nil {
		return Event{}, err
	}
	lines := []**int64{&e.MoneyLine1, &e.MoneyLine2, &e.MoneyLine3, &e.MoneyLine4}
	for i, n := range ml {
		if n.Valid {
			v := n.Int64
			*lines[i] = &v
		}
	}
	return e, nil
}

// resolveViews troca o CSV de ids por nomes de exibição, preservando a
// ordem dos slots do evento. Um id sem conta vira o próprio id em texto,
// como no sistema original.
func (p *Postgres) resolveViews(ctx context.Context, events []Event) ([]EventView, error) {
	// junta todos os ids num lookup só
	idSet := map[int64]struct{}{}
	for _, e := range events {
		for _, id := range parseParticipantIDs(e.Participants) {
			idSet[id] = struct{}{}
		}
	}
	names := map[int64]string{}
	if len(idSet) > 0 {
		ids := make([]int64, 0, len(idSet))
		for id := range idSet {
			ids = append(ids, id)
		}
		rows, err := p.db.QueryContext(ctx,
			`SELECT id, COALESCE(NULLIF(display_name,''), username) FROM accounts WHERE id = ANY($1)`,
			pq.Array(ids))
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		for rows.Next() {
			var id int64
			var name string
			if err := rows.Scan(&id, &name); err != nil {
				return nil, err
			}
			names[id] = name
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	out := make([]EventView, 0, len(events))
	for _, e := range events {
		v := EventView{
			ID: e.ID, Title: e.Title, Description: e.Description,
			Date: e.Date, Time: e.Time,
			MoneyLine1: e.MoneyLine1, MoneyLine2: e.MoneyLine2,
			MoneyLine3: e.MoneyLine3, MoneyLine4: e.MoneyLine4,
		}
		for _, id := range parseParticipantIDs(e.Participants) {
			if name, ok := names[id]; ok {
				v.Participants = append(v.Participants, name)
			} else {
				v.Participants = append(v.Participants, strconv.FormatInt(id, 10))
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// CreateSpecialBet insere uma aposta especial autorada pelo admin
func (p *Postgres) CreateSpecialBet(ctx context.Context, description string, odds int64, createdBy int64) (int64, error) {
	var id int64
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO special_bets(description, odds, created_by) VALUES($1,$2,$3) RETURNING id`,
		description, odds, createdBy).Scan(&id)
	return id, err
}

// ListSpecialBets retorna o catálogo de apostas especiais
func (p *Postgres) ListSpecialBets(ctx context.Context) ([]SpecialBet, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, description, odds, created_by FROM special_bets ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SpecialBet
	for rows.Next() {
		var sb SpecialBet
		if err := rows.Scan(&sb.ID, &sb.Description, &sb.Odds, &sb.CreatedBy); err != nil {
			return nil, err
		}
		out = append(out, sb)
	}
	return out, rows.Err()
}

// DeleteSpecialBet remove a aposta especial. Apostas já colocadas ficam
// órfãs de referência, mas o snapshot em predicted_outcome se mantém.
func (p *Postgres) DeleteSpecialBet(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM special_bets WHERE id=$1`, id)
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
