package repo

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/shared/apperr"
	"github.com/radieske/chuti-bet/internal/shared/db"
)

const betColumns = `id, user_id, question_id, pronostico_id, stake, status, payout, placed_at, closed_at`

func scanBet(row interface{ Scan(...any) error }) (model.Bet, error) {
	var b model.Bet
	err := row.Scan(&b.ID, &b.UserID, &b.QuestionID, &b.PronosticoID, &b.Stake,
		&b.Status, &b.Payout, &b.PlacedAt, &b.ClosedAt)
	return b, err
}

func betRef(id int64) string { return "bet:" + strconv.FormatInt(id, 10) }

// PlaceBet insere a aposta e debita o stake na mesma transação.
// O FOR SHARE na pergunta serializa com RecordResult: uma aposta nunca entra
// numa pergunta já resolvida e nunca fica de fora da liquidação.
func (p *Postgres) PlaceBet(ctx context.Context, b model.Bet) (model.Bet, decimal.Decimal, error) {
	var balance decimal.Decimal
	err := db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		var resultID sql.NullInt64
		err := tx.QueryRowContext(ctx,
			`SELECT result_id FROM questions WHERE id = $1 FOR SHARE`, b.QuestionID).Scan(&resultID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound(apperr.CodeQuestionNotFound, "question does not exist")
		}
		if err != nil {
			return apperr.Store(err, "lock question")
		}
		if resultID.Valid {
			return apperr.AlreadySettled("question already settled")
		}

		row := tx.QueryRowContext(ctx, `
			INSERT INTO bets (user_id, question_id, pronostico_id, stake)
			VALUES ($1, $2, $3, $4)
			RETURNING `+betColumns, b.UserID, b.QuestionID, b.PronosticoID, b.Stake)
		if b, err = scanBet(row); err != nil {
			if isForeignKeyViolation(err) {
				return apperr.NotFound(apperr.CodeUserNotFound, "user or pronostico does not exist")
			}
			return apperr.Store(err, "insert bet")
		}

		balance, err = debit(ctx, tx, b.UserID, b.Stake, model.EntryBetPlaced, betRef(b.ID))
		return err
	})
	if err != nil {
		return model.Bet{}, decimal.Zero, mapErr(err, "place bet")
	}
	return b, balance, nil
}

// CancelBet faz open -> cancelled com compare-and-set e devolve o stake.
// Aposta que não está mais aberta, ou cuja pergunta já tem resultado, resulta
// em AlreadySettled. O FOR SHARE na pergunta serializa com RecordResult como em PlaceBet.
func (p *Postgres) CancelBet(ctx context.Context, betID, userID int64) (model.Bet, error) {
	var out model.Bet
	err := db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		var resultID sql.NullInt64
		err := tx.QueryRowContext(ctx, `
			SELECT q.result_id FROM bets b JOIN questions q ON q.id = b.question_id
			WHERE b.id = $1 AND b.user_id = $2
			FOR SHARE OF q`, betID, userID).Scan(&resultID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound(apperr.CodeBetNotFound, "bet does not exist")
		}
		if err != nil {
			return apperr.Store(err, "lock question")
		}
		if resultID.Valid {
			return apperr.AlreadySettled("question already settled")
		}

		row := tx.QueryRowContext(ctx, `
			UPDATE bets SET status = 'cancelled', closed_at = NOW()
			WHERE id = $1 AND user_id = $2 AND status = 'open'
			RETURNING `+betColumns, betID, userID)
		b, err := scanBet(row)
		if errors.Is(err, sql.ErrNoRows) {
			if _, err := scanBet(tx.QueryRowContext(ctx,
				`SELECT `+betColumns+` FROM bets WHERE id = $1 AND user_id = $2`, betID, userID)); err != nil {
				return notFoundOr(err, apperr.CodeBetNotFound, "bet does not exist", "select bet")
			}
			return apperr.AlreadySettled("bet is no longer open")
		}
		if err != nil {
			return apperr.Store(err, "cancel bet")
		}

		if _, err := credit(ctx, tx, b.UserID, b.Stake, model.EntryBetRefund, betRef(b.ID)); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return model.Bet{}, mapErr(err, "cancel bet")
	}
	return out, nil
}

// SettleBet é a transição atômica open -> won|lost. Credita o payout do
// vencedor na mesma transação. Retorna false se a aposta já não estava aberta.
func (p *Postgres) SettleBet(ctx context.Context, b model.Bet, status model.BetStatus, payout decimal.Decimal) (bool, error) {
	var settled bool
	err := db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE bets SET status = $1, payout = $2, closed_at = NOW()
			WHERE id = $3 AND status = 'open'`, status, payout, b.ID)
		if err != nil {
			return apperr.Store(err, "settle bet")
		}
		n, err := rowsAffected(res)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}

		if payout.IsPositive() {
			if _, err := credit(ctx, tx, b.UserID, payout, model.EntryBetPayout, betRef(b.ID)); err != nil {
				return err
			}
		}
		settled = true
		return nil
	})
	if err != nil {
		return false, mapErr(err, "settle bet")
	}
	return settled, nil
}

func (p *Postgres) BetByID(ctx context.Context, id int64) (model.Bet, error) {
	b, err := scanBet(p.db.QueryRowContext(ctx, `SELECT `+betColumns+` FROM bets WHERE id = $1`, id))
	return b, notFoundOr(err, apperr.CodeBetNotFound, "bet does not exist", "select bet")
}

func (p *Postgres) OpenBetsByQuestion(ctx context.Context, questionID int64) ([]model.Bet, error) {
	return p.listBets(ctx, `
		SELECT `+betColumns+` FROM bets
		WHERE question_id = $1 AND status = 'open'
		ORDER BY id`, questionID)
}

// BetsByUser lista as apostas do usuário, mais recentes primeiro
func (p *Postgres) BetsByUser(ctx context.Context, userID int64, openOnly bool) ([]model.Bet, error) {
	if openOnly {
		return p.listBets(ctx, `
			SELECT `+betColumns+` FROM bets
			WHERE user_id = $1 AND status = 'open'
			ORDER BY placed_at DESC, id DESC`, userID)
	}
	return p.listBets(ctx, `
		SELECT `+betColumns+` FROM bets
		WHERE user_id = $1
		ORDER BY placed_at DESC, id DESC`, userID)
}

func (p *Postgres) listBets(ctx context.Context, query string, args ...any) ([]model.Bet, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Store(err, "list bets")
	}
	defer rows.Close()

	out := []model.Bet{}
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			return nil, apperr.Store(err, "scan bet")
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(err, "iterate bets")
	}
	return out, nil
}
