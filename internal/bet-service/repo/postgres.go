package repo

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/radieske/chuti-bet/internal/shared/apperr"
)

// Postgres implementa a persistência do bet-service em banco Postgres.
// Cada operação que mexe em saldo roda numa transação própria e passa pelo
// primitivo de ledger (credit/debit).
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool { return hasPQCode(err, uniqueViolation) }

func isForeignKeyViolation(err error) bool { return hasPQCode(err, foreignKeyViolation) }

func hasPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

// mapErr converte erros do driver no erro de domínio; *apperr.Error passa intacto
func mapErr(err error, op string) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Store(err, op)
}
