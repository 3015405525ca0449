package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/shared/apperr"
	"github.com/radieske/chuti-bet/internal/shared/db"
)

// ---------- times ----------

const teamColumns = `id, name, season, founded, venue, capacity, president, coach, website, won, drawn, lost`

func scanTeam(row interface{ Scan(...any) error }) (model.Team, error) {
	var t model.Team
	err := row.Scan(&t.ID, &t.Name, &t.Season, &t.Founded, &t.Venue, &t.Capacity,
		&t.President, &t.Coach, &t.Website, &t.Won, &t.Drawn, &t.Lost)
	return t, err
}

func (p *Postgres) CreateTeam(ctx context.Context, t model.Team) (model.Team, error) {
	row := p.db.QueryRowContext(ctx, `
		INSERT INTO teams (name, season, founded, venue, capacity, president, coach, website)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+teamColumns,
		t.Name, t.Season, t.Founded, t.Venue, t.Capacity, t.President, t.Coach, t.Website)
	out, err := scanTeam(row)
	if isUniqueViolation(err) {
		return model.Team{}, apperr.Conflict(apperr.CodeTeamExists, "team "+t.Name+" already exists in season")
	}
	if err != nil {
		return model.Team{}, apperr.Store(err, "insert team")
	}
	return out, nil
}

func (p *Postgres) TeamByID(ctx context.Context, id int64) (model.Team, error) {
	t, err := scanTeam(p.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
	return t, notFoundOr(err, apperr.CodeTeamNotFound, "team does not exist", "select team")
}

func (p *Postgres) TeamByName(ctx context.Context, name string, season int) (model.Team, error) {
	t, err := scanTeam(p.db.QueryRowContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE name = $1 AND season = $2`, name, season))
	return t, notFoundOr(err, apperr.CodeTeamNotFound, "team does not exist", "select team")
}

func (p *Postgres) TeamsBySeason(ctx context.Context, season int) ([]model.Team, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE season = $1 ORDER BY name`, season)
	if err != nil {
		return nil, apperr.Store(err, "list teams")
	}
	defer rows.Close()

	out := []model.Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, apperr.Store(err, "scan team")
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(err, "iterate teams")
	}
	return out, nil
}

// RecordMatch incrementa o contador correspondente ao resultado
func (p *Postgres) RecordMatch(ctx context.Context, teamID int64, result model.MatchResult) (model.Team, error) {
	var column string
	switch result {
	case model.MatchWin:
		column = "won"
	case model.MatchDraw:
		column = "drawn"
	case model.MatchLoss:
		column = "lost"
	default:
		return model.Team{}, apperr.Validation(apperr.CodeWrongParameters, "unknown match result")
	}

	row := p.db.QueryRowContext(ctx,
		`UPDATE teams SET `+column+` = `+column+` + 1 WHERE id = $1 RETURNING `+teamColumns, teamID)
	t, err := scanTeam(row)
	return t, notFoundOr(err, apperr.CodeTeamNotFound, "team does not exist", "record match")
}

// ---------- eventos ----------

const eventColumns = `id, description, event_date, home_team_id, away_team_id, visibility`

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Description, &e.Date, &e.HomeTeamID, &e.AwayTeamID, &e.Visibility)
	return e, err
}

func (p *Postgres) CreateEvent(ctx context.Context, e model.Event) (model.Event, error) {
	row := p.db.QueryRowContext(ctx, `
		INSERT INTO events (description, event_date, home_team_id, away_team_id, visibility)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+eventColumns,
		e.Description, e.Date, e.HomeTeamID, e.AwayTeamID, e.Visibility)
	out, err := scanEvent(row)
	if err != nil {
		return model.Event{}, apperr.Store(err, "insert event")
	}
	return out, nil
}

func (p *Postgres) EventByID(ctx context.Context, id int64) (model.Event, error) {
	e, err := scanEvent(p.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	return e, notFoundOr(err, apperr.CodeEventNotFound, "event does not exist", "select event")
}

// EventsBetween lista eventos no intervalo [from, to) ordenados por data
func (p *Postgres) EventsBetween(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE event_date >= $1 AND event_date < $2
		ORDER BY event_date, id`, from, to)
	if err != nil {
		return nil, apperr.Store(err, "list events")
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, apperr.Store(err, "scan event")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(err, "iterate events")
	}
	return out, nil
}

func (p *Postgres) UpdateEventDescription(ctx context.Context, id int64, desc string) error {
	res, err := p.db.ExecContext(ctx, `UPDATE events SET description = $1 WHERE id = $2`, desc, id)
	if err != nil {
		return apperr.Store(err, "update event description")
	}
	return requireAffected(res, apperr.CodeEventNotFound, "event does not exist")
}

// UpdateEventDate recusa a mudança se alguma pergunta do evento já foi liquidada
func (p *Postgres) UpdateEventDate(ctx context.Context, id int64, date time.Time) error {
	return mapErr(db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE events SET event_date = $1
			WHERE id = $2
			  AND NOT EXISTS (SELECT 1 FROM questions WHERE event_id = $2 AND result_id IS NOT NULL)`, date, id)
		if err != nil {
			return apperr.Store(err, "update event date")
		}
		n, err := rowsAffected(res)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		if _, err := scanEvent(tx.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)); err != nil {
			return notFoundOr(err, apperr.CodeEventNotFound, "event does not exist", "select event")
		}
		return apperr.AlreadySettled("event has settled questions")
	}), "update event date")
}

func (p *Postgres) SetEventVisibility(ctx context.Context, id int64, v model.Visibility) error {
	res, err := p.db.ExecContext(ctx, `UPDATE events SET visibility = $1 WHERE id = $2`, v, id)
	if err != nil {
		return apperr.Store(err, "update event visibility")
	}
	return requireAffected(res, apperr.CodeEventNotFound, "event does not exist")
}

// DeleteEvent apaga o evento com suas perguntas e pronósticos. Recusa com
// open_bets se houver aposta aberta e com bet_history se houver aposta
// encerrada: o histórico das apostas e as refs do ledger não podem sumir.
func (p *Postgres) DeleteEvent(ctx context.Context, id int64) error {
	return mapErr(db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		if _, err := scanEvent(tx.QueryRowContext(ctx,
			`SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, id)); err != nil {
			return notFoundOr(err, apperr.CodeEventNotFound, "event does not exist", "lock event")
		}

		var open, closed bool
		if err := tx.QueryRowContext(ctx, `
			SELECT
				COALESCE(bool_or(b.status = 'open'), FALSE),
				COALESCE(bool_or(b.status <> 'open'), FALSE)
			FROM bets b JOIN questions q ON q.id = b.question_id
			WHERE q.event_id = $1`, id).Scan(&open, &closed); err != nil {
			return apperr.Store(err, "check event bets")
		}
		if open {
			return apperr.Conflict(apperr.CodeOpenBets, "event still has open bets")
		}
		if closed {
			return apperr.Conflict(apperr.CodeBetHistory, "event has bet history")
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
			if isForeignKeyViolation(err) {
				return apperr.Conflict(apperr.CodeBetHistory, "event has bet history")
			}
			return apperr.Store(err, "delete event")
		}
		return nil
	}), "delete event")
}

// ---------- perguntas ----------

const questionColumns = `id, event_id, text, min_bet, mode, result_id, settled_at`

func scanQuestion(row interface{ Scan(...any) error }) (model.Question, error) {
	var q model.Question
	err := row.Scan(&q.ID, &q.EventID, &q.Text, &q.MinBet, &q.Mode, &q.ResultID, &q.SettledAt)
	return q, err
}

func (p *Postgres) CreateQuestion(ctx context.Context, q model.Question) (model.Question, error) {
	row := p.db.QueryRowContext(ctx, `
		INSERT INTO questions (event_id, text, min_bet, mode)
		VALUES ($1, $2, $3, $4)
		RETURNING `+questionColumns, q.EventID, q.Text, q.MinBet, q.Mode)
	out, err := scanQuestion(row)
	if isUniqueViolation(err) {
		return model.Question{}, apperr.Conflict(apperr.CodeQuestionExists, "question already exists for event")
	}
	if err != nil {
		return model.Question{}, apperr.Store(err, "insert question")
	}
	return out, nil
}

func (p *Postgres) QuestionByID(ctx context.Context, id int64) (model.Question, error) {
	q, err := scanQuestion(p.db.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
	return q, notFoundOr(err, apperr.CodeQuestionNotFound, "question does not exist", "select question")
}

func (p *Postgres) QuestionsByEvent(ctx context.Context, eventID int64) ([]model.Question, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE event_id = $1 ORDER BY id`, eventID)
	if err != nil {
		return nil, apperr.Store(err, "list questions")
	}
	defer rows.Close()

	out := []model.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, apperr.Store(err, "scan question")
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(err, "iterate questions")
	}
	return out, nil
}

// RecordResult grava o pronóstico vencedor uma única vez. Repetir com o mesmo
// pronóstico é aceito; outro pronóstico numa pergunta já resolvida é AlreadySettled.
func (p *Postgres) RecordResult(ctx context.Context, questionID, pronosticoID int64) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE questions SET result_id = $2, settled_at = COALESCE(settled_at, NOW())
		WHERE id = $1 AND (result_id IS NULL OR result_id = $2)`, questionID, pronosticoID)
	if err != nil {
		return apperr.Store(err, "record result")
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := p.QuestionByID(ctx, questionID); err != nil {
			return err
		}
		return apperr.AlreadySettled("question already settled with another outcome")
	}
	return nil
}

// ---------- pronósticos ----------

const pronosticoColumns = `id, question_id, label, team_id, percentage, outcome_key`

func scanPronostico(row interface{ Scan(...any) error }) (model.Pronostico, error) {
	var pr model.Pronostico
	err := row.Scan(&pr.ID, &pr.QuestionID, &pr.Label, &pr.TeamID, &pr.Percentage, &pr.OutcomeKey)
	return pr, err
}

func (p *Postgres) CreatePronostico(ctx context.Context, pr model.Pronostico) (model.Pronostico, error) {
	row := p.db.QueryRowContext(ctx, `
		INSERT INTO pronosticos (question_id, label, team_id, percentage, outcome_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+pronosticoColumns,
		pr.QuestionID, pr.Label, pr.TeamID, pr.Percentage, pr.OutcomeKey)
	out, err := scanPronostico(row)
	if isUniqueViolation(err) {
		return model.Pronostico{}, apperr.Conflict(apperr.CodePrognosticExists, "prognostic already exists for question")
	}
	if err != nil {
		return model.Pronostico{}, apperr.Store(err, "insert pronostico")
	}
	return out, nil
}

func (p *Postgres) PronosticoByID(ctx context.Context, id int64) (model.Pronostico, error) {
	pr, err := scanPronostico(p.db.QueryRowContext(ctx,
		`SELECT `+pronosticoColumns+` FROM pronosticos WHERE id = $1`, id))
	return pr, notFoundOr(err, apperr.CodePronosticoNotFound, "pronostico does not exist", "select pronostico")
}

func (p *Postgres) PronosticosByQuestion(ctx context.Context, questionID int64) ([]model.Pronostico, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+pronosticoColumns+` FROM pronosticos WHERE question_id = $1 ORDER BY id`, questionID)
	if err != nil {
		return nil, apperr.Store(err, "list pronosticos")
	}
	defer rows.Close()

	out := []model.Pronostico{}
	for rows.Next() {
		pr, err := scanPronostico(rows)
		if err != nil {
			return nil, apperr.Store(err, "scan pronostico")
		}
		out = append(out, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(err, "iterate pronosticos")
	}
	return out, nil
}

// notFoundOr traduz sql.ErrNoRows em NotFound e o resto em StoreFailure
func notFoundOr(err error, code, msg, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(code, msg)
	}
	return mapErr(err, op)
}
