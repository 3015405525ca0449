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

const voucherColumns = `code, max_uses, remaining, value, created_at`

func scanVoucher(row interface{ Scan(...any) error }) (model.Voucher, error) {
	var v model.Voucher
	err := row.Scan(&v.Code, &v.MaxUses, &v.Remaining, &v.Value, &v.CreatedAt)
	return v, err
}

// CreateVoucher grava o boleto com remaining = max_uses
func (p *Postgres) CreateVoucher(ctx context.Context, v model.Voucher) (model.Voucher, error) {
	row := p.db.QueryRowContext(ctx, `
		INSERT INTO vouchers (code, max_uses, remaining, value)
		VALUES ($1, $2, $2, $3)
		RETURNING `+voucherColumns, v.Code, v.MaxUses, v.Value)
	out, err := scanVoucher(row)
	if isUniqueViolation(err) {
		return model.Voucher{}, apperr.Conflict(apperr.CodeDuplicateCode, "voucher "+v.Code+" already exists")
	}
	if err != nil {
		return model.Voucher{}, apperr.Store(err, "insert voucher")
	}
	return out, nil
}

func (p *Postgres) VoucherByCode(ctx context.Context, code string) (model.Voucher, error) {
	v, err := scanVoucher(p.db.QueryRowContext(ctx,
		`SELECT `+voucherColumns+` FROM vouchers WHERE code = $1`, code))
	return v, notFoundOr(err, apperr.CodeVoucherNotFound, "voucher does not exist", "select voucher")
}

func (p *Postgres) Vouchers(ctx context.Context) ([]model.Voucher, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT `+voucherColumns+` FROM vouchers ORDER BY created_at, code`)
	if err != nil {
		return nil, apperr.Store(err, "list vouchers")
	}
	defer rows.Close()

	out := []model.Voucher{}
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, apperr.Store(err, "scan voucher")
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(err, "iterate vouchers")
	}
	return out, nil
}

// DeleteVoucher remove o boleto; os registros de resgate caem em cascata
func (p *Postgres) DeleteVoucher(ctx context.Context, code string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM vouchers WHERE code = $1`, code)
	if err != nil {
		return apperr.Store(err, "delete voucher")
	}
	return requireAffected(res, apperr.CodeVoucherNotFound, "voucher does not exist")
}

// RedeemVoucher decrementa remaining com compare-and-decrement, marca o
// usuário como resgatado e credita o valor, tudo numa transação.
// Ordem de erros: inexistente, esgotado, já usado pelo usuário.
func (p *Postgres) RedeemVoucher(ctx context.Context, code string, userID int64) (model.Voucher, decimal.Decimal, error) {
	var (
		v       model.Voucher
		balance decimal.Decimal
	)
	err := db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		var err error
		v, err = scanVoucher(tx.QueryRowContext(ctx, `
			UPDATE vouchers SET remaining = remaining - 1
			WHERE code = $1 AND remaining > 0
			RETURNING `+voucherColumns, code))
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			if err := tx.QueryRowContext(ctx,
				`SELECT EXISTS(SELECT 1 FROM vouchers WHERE code = $1)`, code).Scan(&exists); err != nil {
				return apperr.Store(err, "check voucher")
			}
			if !exists {
				return apperr.NotFound(apperr.CodeVoucherNotFound, "voucher does not exist")
			}
			return apperr.New(apperr.KindInsufficientFunds, apperr.CodeVoucherExhausted, "voucher has no uses left")
		}
		if err != nil {
			return apperr.Store(err, "decrement voucher")
		}

		// a PK (code, user_id) garante um resgate por usuário; a violação desfaz o decremento
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO voucher_redemptions (code, user_id) VALUES ($1, $2)`, code, userID); err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict(apperr.CodeVoucherUsed, "voucher already redeemed by user")
			}
			if isForeignKeyViolation(err) {
				return apperr.NotFound(apperr.CodeUserNotFound, "user does not exist")
			}
			return apperr.Store(err, "insert redemption")
		}

		balance, err = credit(ctx, tx, userID, v.Value, model.EntryVoucher, "voucher:"+code)
		return err
	})
	if err != nil {
		return model.Voucher{}, decimal.Zero, mapErr(err, "redeem voucher")
	}
	return v, balance, nil
}
