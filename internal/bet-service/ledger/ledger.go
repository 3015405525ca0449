// Package ledger é o único caminho para alterar saldo fora das transações
// compostas do repositório. Créditos e débitos sempre geram uma entrada
// de extrato com a causa (kind + ref).
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/shared/apperr"
	"github.com/radieske/chuti-bet/internal/shared/logger"
)

type Store interface {
	Credit(ctx context.Context, userID int64, amount decimal.Decimal, kind model.EntryKind, ref string) (decimal.Decimal, error)
	Debit(ctx context.Context, userID int64, amount decimal.Decimal, kind model.EntryKind, ref string) (decimal.Decimal, error)
	Entries(ctx context.Context, userID int64) ([]model.LedgerEntry, error)
}

type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

// Credit soma amount (> 0) ao saldo e devolve o novo saldo
func (s *Service) Credit(ctx context.Context, userID int64, amount decimal.Decimal, kind model.EntryKind, ref string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, apperr.Validation(apperr.CodeWrongParameters, "credit amount must be positive")
	}
	bal, err := s.store.Credit(ctx, userID, amount, kind, ref)
	if err != nil {
		return decimal.Zero, err
	}
	logger.From(ctx, s.log).Debug("balance credited",
		zap.Int64("user_id", userID), zap.String("amount", amount.String()),
		zap.String("kind", string(kind)), zap.String("ref", ref))
	return bal, nil
}

// Debit falha com InsufficientFunds se o saldo ficaria negativo; nada muda nesse caso
func (s *Service) Debit(ctx context.Context, userID int64, amount decimal.Decimal, kind model.EntryKind, ref string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, apperr.Validation(apperr.CodeWrongParameters, "debit amount must be positive")
	}
	bal, err := s.store.Debit(ctx, userID, amount, kind, ref)
	if err != nil {
		return decimal.Zero, err
	}
	logger.From(ctx, s.log).Debug("balance debited",
		zap.Int64("user_id", userID), zap.String("amount", amount.String()),
		zap.String("kind", string(kind)), zap.String("ref", ref))
	return bal, nil
}

// Adjust é o ajuste manual do admin: delta positivo credita, negativo debita
func (s *Service) Adjust(ctx context.Context, userID int64, delta decimal.Decimal, note string) (decimal.Decimal, error) {
	ref := "adjust:" + note
	var (
		bal decimal.Decimal
		err error
	)
	switch {
	case delta.IsPositive():
		bal, err = s.Credit(ctx, userID, delta, model.EntryAdjustment, ref)
	case delta.IsNegative():
		bal, err = s.Debit(ctx, userID, delta.Neg(), model.EntryAdjustment, ref)
	default:
		return decimal.Zero, apperr.Validation(apperr.CodeWrongParameters, "adjustment must be non-zero")
	}
	if err != nil {
		return decimal.Zero, err
	}

	logger.From(ctx, s.log).Info("balance adjusted",
		zap.Int64("user_id", userID), zap.String("delta", delta.String()), zap.String("note", note))
	return bal, nil
}

func (s *Service) History(ctx context.Context, userID int64) ([]model.LedgerEntry, error) {
	return s.store.Entries(ctx, userID)
}
