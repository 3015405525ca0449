// Package apperr define o erro único com discriminante (Kind) usado por todo o
// domínio. A camada HTTP traduz o Kind em status e o Code em mensagem estável.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindInsufficientFunds
	KindAlreadySettled
	KindStoreFailure
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindAlreadySettled:
		return "already_settled"
	case KindStoreFailure:
		return "store_failure"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Codes estáveis expostos ao cliente
const (
	CodeWrongParameters    = "wrong_parameters"
	CodeInvalidOutcome     = "invalid_outcome"
	CodeEventFinished      = "event_finished"
	CodeOldDate            = "old_date"
	CodeUnderage           = "underage"
	CodeInvalidCard        = "invalid_card"
	CodeQuestionExists     = "question_exists"
	CodePrognosticExists   = "prognostic_exists"
	CodeTeamExists         = "team_exists"
	CodeUserExists         = "user_exists"
	CodeDuplicateCode      = "duplicate_code"
	CodeOpenBets           = "open_bets"
	CodeBetHistory         = "bet_history"
	CodeUserNotFound       = "user_not_found"
	CodeEventNotFound      = "event_not_found"
	CodeQuestionNotFound   = "question_not_found"
	CodePronosticoNotFound = "pronostico_not_found"
	CodeTeamNotFound       = "team_not_found"
	CodeBetNotFound        = "bet_not_found"
	CodeCardNotFound       = "card_not_found"
	CodeVoucherNotFound    = "voucher_not_found"
	CodeVoucherExhausted   = "voucher_exhausted"
	CodeVoucherUsed        = "voucher_already_used"
	CodeNotEnoughChuti     = "not_enough_chuti"
	CodeAlreadySettled     = "already_settled"
	CodeSettlementFailed   = "settlement_failed"
	CodeStoreUnavailable   = "store_unavailable"
	CodeBadCredentials     = "bad_credentials"
	CodeUserBanned         = "user_banned"
	CodeAdminOnly          = "admin_only"
)

type Error struct {
	Kind Kind
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return e.Code + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is permite errors.Is(err, apperr.New(kind, code, "")) comparar por Kind+Code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == "" || t.Code == e.Code)
}

func New(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

func Wrap(kind Kind, code string, err error, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg, Err: err}
}

func Validation(code, msg string) *Error { return New(KindValidation, code, msg) }
func NotFound(code, msg string) *Error   { return New(KindNotFound, code, msg) }
func Conflict(code, msg string) *Error   { return New(KindConflict, code, msg) }

func InsufficientFunds(msg string) *Error {
	return New(KindInsufficientFunds, CodeNotEnoughChuti, msg)
}

func AlreadySettled(msg string) *Error {
	return New(KindAlreadySettled, CodeAlreadySettled, msg)
}

// Store envolve uma falha de persistência; nunca retentada aqui
func Store(err error, op string) *Error {
	return Wrap(KindStoreFailure, CodeStoreUnavailable, err, op)
}

// KindOf devolve o Kind do primeiro *Error na cadeia; erros desconhecidos
// viram KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf devolve o Code do primeiro *Error na cadeia
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode atalho para testes e handlers
func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}
