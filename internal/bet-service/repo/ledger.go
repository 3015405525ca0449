package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/shared/apperr"
	"github.com/radieske/chuti-bet/internal/shared/db"
)

// credit incrementa o saldo num único UPDATE atômico e registra a entrada no ledger.
// Deve rodar dentro da transação de quem causou o crédito.
func credit(ctx context.Context, q db.Querier, userID int64, amount decimal.Decimal, kind model.EntryKind, ref string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := q.QueryRowContext(ctx, `
		UPDATE users SET balance = balance + $1, updated_at = NOW()
		WHERE dni = $2 AND deleted_at IS NULL
		RETURNING balance`, amount, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, apperr.NotFound(apperr.CodeUserNotFound, "user does not exist")
	}
	if err != nil {
		return decimal.Zero, apperr.Store(err, "credit balance")
	}

	if err := insertEntry(ctx, q, userID, kind, amount, balance, ref); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// debit decrementa o saldo só se houver fundos (balance >= amount) no mesmo UPDATE,
// evitando read-modify-write. Zero linhas afetadas = usuário inexistente ou sem saldo.
func debit(ctx context.Context, q db.Querier, userID int64, amount decimal.Decimal, kind model.EntryKind, ref string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := q.QueryRowContext(ctx, `
		UPDATE users SET balance = balance - $1, updated_at = NOW()
		WHERE dni = $2 AND deleted_at IS NULL AND balance >= $1
		RETURNING balance`, amount, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := q.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE dni = $1 AND deleted_at IS NULL)`, userID).Scan(&exists); err != nil {
			return decimal.Zero, apperr.Store(err, "check user")
		}
		if !exists {
			return decimal.Zero, apperr.NotFound(apperr.CodeUserNotFound, "user does not exist")
		}
		return decimal.Zero, apperr.InsufficientFunds("balance below " + amount.StringFixed(2))
	}
	if err != nil {
		return decimal.Zero, apperr.Store(err, "debit balance")
	}

	if err := insertEntry(ctx, q, userID, kind, amount.Neg(), balance, ref); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func insertEntry(ctx context.Context, q db.Querier, userID int64, kind model.EntryKind, amount, balanceAfter decimal.Decimal, ref string) error {
	if _, err := q.ExecContext(ctx, `
		INSERT INTO ledger_entries (user_id, kind, amount, balance_after, ref)
		VALUES ($1, $2, $3, $4, $5)`,
		userID, kind, amount, balanceAfter, ref); err != nil {
		return apperr.Store(err, "insert ledger entry")
	}
	return nil
}

// Credit aplica um crédito isolado (ajuste manual do admin)
func (p *Postgres) Credit(ctx context.Context, userID int64, amount decimal.Decimal, kind model.EntryKind, ref string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		var err error
		balance, err = credit(ctx, tx, userID, amount, kind, ref)
		return err
	})
	return balance, mapErr(err, "credit")
}

// Debit aplica um débito isolado; falha com InsufficientFunds sem alterar o saldo
func (p *Postgres) Debit(ctx context.Context, userID int64, amount decimal.Decimal, kind model.EntryKind, ref string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		var err error
		balance, err = debit(ctx, tx, userID, amount, kind, ref)
		return err
	})
	return balance, mapErr(err, "debit")
}

// Entries lista o extrato do usuário, mais recente primeiro
func (p *Postgres) Entries(ctx context.Context, userID int64) ([]model.LedgerEntry, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, kind, amount, balance_after, ref, created_at
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY id DESC`, userID)
	if err != nil {
		return nil, apperr.Store(err, "list ledger entries")
	}
	defer rows.Close()

	var out []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Amount, &e.BalanceAfter, &e.Ref, &e.CreatedAt); err != nil {
			return nil, apperr.Store(err, "scan ledger entry")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(err, "iterate ledger entries")
	}
	return out, nil
}
