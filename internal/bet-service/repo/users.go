package repo

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/shared/apperr"
	"github.com/radieske/chuti-bet/internal/shared/db"
)

const userColumns = `dni, first_name, last_name, email, password_hash, birth_date,
	balance, privileged, banned, ban_message, deleted_at, created_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.DNI, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.BirthDate,
		&u.Balance, &u.Privileged, &u.Banned, &u.BanMessage, &u.DeletedAt, &u.CreatedAt)
	return u, err
}

// CreateUser insere o usuário com saldo zero; DNI repetido vira Conflict
func (p *Postgres) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	row := p.db.QueryRowContext(ctx, `
		INSERT INTO users (dni, first_name, last_name, email, password_hash, birth_date, privileged)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		u.DNI, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.BirthDate, u.Privileged)
	out, err := scanUser(row)
	if isUniqueViolation(err) {
		return model.User{}, apperr.Conflict(apperr.CodeUserExists, "user "+strconv.FormatInt(u.DNI, 10)+" already registered")
	}
	if err != nil {
		return model.User{}, apperr.Store(err, "insert user")
	}
	return out, nil
}

// UserByDNI ignora usuários removidos
func (p *Postgres) UserByDNI(ctx context.Context, dni int64) (model.User, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE dni = $1 AND deleted_at IS NULL`, dni)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperr.NotFound(apperr.CodeUserNotFound, "user does not exist")
	}
	if err != nil {
		return model.User{}, apperr.Store(err, "select user")
	}
	return u, nil
}

func (p *Postgres) SetBan(ctx context.Context, dni int64, banned bool, message string) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE users SET banned = $1, ban_message = $2, updated_at = NOW()
		WHERE dni = $3 AND deleted_at IS NULL`, banned, message, dni)
	if err != nil {
		return apperr.Store(err, "update ban")
	}
	return requireAffected(res, apperr.CodeUserNotFound, "user does not exist")
}

// DeleteUser faz soft delete só se não houver apostas abertas; a checagem
// e a escrita estão no mesmo UPDATE
func (p *Postgres) DeleteUser(ctx context.Context, dni int64) error {
	return mapErr(db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE users SET deleted_at = NOW(), updated_at = NOW()
			WHERE dni = $1 AND deleted_at IS NULL
			  AND NOT EXISTS (SELECT 1 FROM bets WHERE user_id = $1 AND status = 'open')`, dni)
		if err != nil {
			return apperr.Store(err, "delete user")
		}
		n, err := rowsAffected(res)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE dni = $1 AND deleted_at IS NULL)`, dni).Scan(&exists); err != nil {
			return apperr.Store(err, "check user")
		}
		if !exists {
			return apperr.NotFound(apperr.CodeUserNotFound, "user does not exist")
		}
		return apperr.Conflict(apperr.CodeOpenBets, "user still has open bets")
	}), "delete user")
}

func (p *Postgres) CreateCard(ctx context.Context, c model.Card) (model.Card, error) {
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO cards (user_id, token, last4) VALUES ($1, $2, $3)
		RETURNING id, created_at`, c.UserID, c.Token, c.Last4).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return model.Card{}, apperr.Store(err, "insert card")
	}
	return c, nil
}

// CardsByUser retorna lista vazia (não NotFound) quando não há cartões
func (p *Postgres) CardsByUser(ctx context.Context, dni int64) ([]model.Card, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, token, last4, created_at FROM cards
		WHERE user_id = $1 ORDER BY id`, dni)
	if err != nil {
		return nil, apperr.Store(err, "list cards")
	}
	defer rows.Close()

	out := []model.Card{}
	for rows.Next() {
		var c model.Card
		if err := rows.Scan(&c.ID, &c.UserID, &c.Token, &c.Last4, &c.CreatedAt); err != nil {
			return nil, apperr.Store(err, "scan card")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(err, "iterate cards")
	}
	return out, nil
}

// RecordPayment credita o saldo e grava o pagamento na mesma transação.
// O cartão precisa pertencer ao usuário.
func (p *Postgres) RecordPayment(ctx context.Context, pay model.Payment) (model.Payment, error) {
	err := db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		var owner int64
		err := tx.QueryRowContext(ctx, `SELECT user_id FROM cards WHERE id = $1`, pay.CardID).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != pay.UserID) {
			return apperr.NotFound(apperr.CodeCardNotFound, "card does not belong to user")
		}
		if err != nil {
			return apperr.Store(err, "select card")
		}

		if err := tx.QueryRowContext(ctx, `
			INSERT INTO payments (user_id, card_id, amount) VALUES ($1, $2, $3)
			RETURNING id, paid_at`, pay.UserID, pay.CardID, pay.Amount).Scan(&pay.ID, &pay.PaidAt); err != nil {
			return apperr.Store(err, "insert payment")
		}

		_, err = credit(ctx, tx, pay.UserID, pay.Amount, model.EntryPayment, "payment:"+strconv.FormatInt(pay.ID, 10))
		return err
	})
	if err != nil {
		return model.Payment{}, mapErr(err, "record payment")
	}
	return pay, nil
}

func (p *Postgres) PaymentsByUser(ctx context.Context, dni int64) ([]model.Payment, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, card_id, amount, paid_at FROM payments
		WHERE user_id = $1 ORDER BY id DESC`, dni)
	if err != nil {
		return nil, apperr.Store(err, "list payments")
	}
	defer rows.Close()

	out := []model.Payment{}
	for rows.Next() {
		var pay model.Payment
		if err := rows.Scan(&pay.ID, &pay.UserID, &pay.CardID, &pay.Amount, &pay.PaidAt); err != nil {
			return nil, apperr.Store(err, "scan payment")
		}
		out = append(out, pay)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(err, "iterate payments")
	}
	return out, nil
}

// rowsAffected mapeia falha do driver ao contar linhas em StoreFailure
func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperr.Store(err, "rows affected")
	}
	return n, nil
}

// requireAffected converte "zero linhas" em NotFound
func requireAffected(res sql.Result, code, msg string) error {
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound(code, msg)
	}
	return nil
}
