package events

import "github.com/shopspring/decimal"

// Evento emitido pelo bet-service quando uma aposta é registrada e o saldo debitado.
type BetPlaced struct {
	MessageID    string          `json:"message_id"`
	BetID        int64           `json:"bet_id"`
	UserID       int64           `json:"user_id"`
	QuestionID   int64           `json:"question_id"`
	PronosticoID int64           `json:"pronostico_id"`
	Stake        decimal.Decimal `json:"stake"`
	TsUnixMs     int64           `json:"ts_unix_ms"`
}

// Evento emitido quando o usuário cancela uma aposta aberta (stake devolvido).
type BetCancelled struct {
	MessageID string          `json:"message_id"`
	BetID     int64           `json:"bet_id"`
	UserID    int64           `json:"user_id"`
	Refund    decimal.Decimal `json:"refund"`
	TsUnixMs  int64           `json:"ts_unix_ms"`
}
